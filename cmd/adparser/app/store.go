package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/maruel/subcommands"

	"github.com/roman-kulish/ricorder/internal/adv"
	"github.com/roman-kulish/ricorder/internal/storage"
)

var cmdStore = &subcommands.Command{
	UsageLine: "store [options] <logfile>...",
	ShortDesc: "imports the given logs into a capture database",
	LongDesc:  "Parses the given log files and stores all records as a new session of the SQLite capture database.",
	CommandRun: func() subcommands.CommandRun {
		var c storeRun
		c.registerDBFlag()
		c.Flags.StringVar(&c.source, "source", "", "Origin of the capture, the output base name of the logs by default")
		return &c
	},
}

var cmdSessions = &subcommands.Command{
	UsageLine: "sessions [options]",
	ShortDesc: "lists the sessions of a capture database",
	CommandRun: func() subcommands.CommandRun {
		var c sessionsRun
		c.registerDBFlag()
		return &c
	},
}

var cmdExport = &subcommands.Command{
	UsageLine: "export [options]",
	ShortDesc: "prints the records of a stored session",
	LongDesc: `Prints the raw records of a stored session in import order, optionally
limited to one advertiser (-addr AA:BB:CC:DD:EE:FF-RANDOM) and a time range.`,
	CommandRun: func() subcommands.CommandRun {
		var c exportRun
		c.registerDBFlag()
		c.Flags.Int64Var(&c.sessionID, "s", 0, "Session ID")
		c.Flags.StringVar(&c.addr, "addr", "", "Only records of this advertiser")
		c.Flags.Float64Var(&c.from, "from", 0, "Only records captured at or after this time (seconds)")
		c.Flags.Float64Var(&c.to, "to", 0, "Only records captured at or before this time (seconds)")
		return &c
	},
}

type dbRun struct {
	subcommands.CommandRunBase

	dbPath string
}

func (c *dbRun) registerDBFlag() {
	c.Flags.StringVar(&c.dbPath, "db", "", "Path to the database file, <dataDirectory>/"+defaultDBName+" by default")
}

func (c *dbRun) createStorage(config *StorageConfig) (*storage.SqliteStore, error) {
	path := c.dbPath
	if path == "" {
		if err := os.MkdirAll(config.DataDirectory, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		path = filepath.Join(config.DataDirectory, defaultDBName)
	}
	return storage.NewSqliteStore(path, storage.WithMaxBatchSize(config.MaxBatchSize)), nil
}

type storeRun struct {
	dbRun

	source string
}

func (c *storeRun) Run(base subcommands.Application, args []string, _ subcommands.Env) (code int) {
	a := getApplication(base)

	p, err := a.parse(args)
	if err != nil {
		return a.exit(err)
	}

	store, err := c.createStorage(&a.config.Storage)
	if err != nil {
		return a.exit(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			code = a.exit(fmt.Errorf("closing storage: %w", err))
		}
	}()

	source := c.source
	if source == "" {
		source = baseName(args)
	}

	sessionID, err := store.CreateSession(a.ctx, source, args)
	if err != nil {
		return a.exit(fmt.Errorf("creating session: %w", err))
	}

	pkts := make([]adv.Packet, 0, p.Len())
	for _, pkt := range p.Packets() {
		pkts = append(pkts, pkt)
	}
	if err = store.StorePackets(a.ctx, sessionID, pkts); err != nil {
		return a.exit(fmt.Errorf("storing packets: %w", err))
	}

	a.logger.Info("session stored",
		slog.Int64("session", sessionID),
		slog.String("packets", humanize.Comma(int64(len(pkts)))))

	return a.exit(a.write(func(w io.Writer) error {
		_, err := fmt.Fprintln(w, sessionID)
		return err
	}))
}

type sessionsRun struct {
	dbRun
}

func (c *sessionsRun) Run(base subcommands.Application, args []string, _ subcommands.Env) (code int) {
	a := getApplication(base)
	if len(args) != 0 {
		return a.exit(fmt.Errorf("unexpected arguments: %s", strings.Join(args, " ")))
	}

	store, err := c.createStorage(&a.config.Storage)
	if err != nil {
		return a.exit(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			code = a.exit(fmt.Errorf("closing storage: %w", err))
		}
	}()

	sessions, err := store.Sessions(a.ctx)
	if err != nil {
		return a.exit(fmt.Errorf("listing sessions: %w", err))
	}

	return a.exit(a.write(func(w io.Writer) error {
		for _, s := range sessions {
			_, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				s.ID, s.StartTime.Format(time.RFC3339), s.Source, strings.Join(s.Files, ","))
			if err != nil {
				return err
			}
		}
		return nil
	}))
}

type exportRun struct {
	dbRun

	sessionID int64
	addr      string
	from, to  float64
}

func (c *exportRun) readerOptions() ([]storage.ReaderOption, error) {
	var opts []storage.ReaderOption
	if c.addr != "" {
		addr, err := adv.ParseAddress(c.addr)
		if err != nil {
			return nil, err
		}
		opts = append(opts, storage.WithAddress(addr))
	}

	c.Flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "from":
			opts = append(opts, storage.WithStartTime(c.from))
		case "to":
			opts = append(opts, storage.WithEndTime(c.to))
		}
	})
	return opts, nil
}

func (c *exportRun) Run(base subcommands.Application, args []string, _ subcommands.Env) (code int) {
	a := getApplication(base)
	if len(args) != 0 {
		return a.exit(fmt.Errorf("unexpected arguments: %s", strings.Join(args, " ")))
	}
	if c.sessionID <= 0 {
		return a.exit(errors.New("session id is required"))
	}

	opts, err := c.readerOptions()
	if err != nil {
		return a.exit(err)
	}

	store, err := c.createStorage(&a.config.Storage)
	if err != nil {
		return a.exit(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			code = a.exit(fmt.Errorf("closing storage: %w", err))
		}
	}()

	r, err := store.ReadPackets(a.ctx, c.sessionID, opts...)
	if err != nil {
		return a.exit(fmt.Errorf("reading session %d: %w", c.sessionID, err))
	}
	defer r.Close()

	return a.exit(a.write(func(w io.Writer) error {
		for r.Next(a.ctx) {
			if _, err := io.WriteString(w, r.Current().Raw); err != nil {
				return err
			}
		}
		return r.Error()
	}))
}

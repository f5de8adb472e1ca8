package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

//go:embed indexes.sql
var initIndexesSQL string

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      source,
                      files)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    source,
    files
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    source,
    files
FROM sessions
ORDER BY start_time, id`

	selectMaxSeqSQL = `
SELECT
    COALESCE(MAX(seq), -1)
FROM packets
WHERE
    session_id = ?`

	insertPacketsSQL = `
INSERT INTO packets (
                     session_id,
                     seq,
                     time,
                     event_type,
                     addr,
                     addr_type,
                     rssi,
                     payload,
                     raw)
VALUES `

	insertPacketValues = "(?, ?, ?, ?, ?, ?, ?, ?, ?)"

	selectPacketsSQL = `
SELECT
    time,
    event_type,
    addr,
    addr_type,
    rssi,
    payload,
    raw
FROM packets
WHERE
    session_id = ?`
)

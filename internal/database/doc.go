// Package database manages the PostgreSQL connection pool backing the
// durable message and notification stores.
package database

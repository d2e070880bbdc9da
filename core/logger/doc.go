// Package logger records the commands a shell runs as newline delimited JSON
// events and summarizes them.
package logger

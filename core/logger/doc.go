// Package logger records job-control events as newline delimited JSON so a
// session can be reviewed after the fact.
package logger

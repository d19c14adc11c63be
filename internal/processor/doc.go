// Package processor runs one deck build from start to finish. It checks the
// audio backend, generates (or reads back) the verb rows, writes the
// dataset CSV, synthesizes the example phrases in row order and packages
// everything into an Anki deck. This package is the coordinator between
// all other components.
package processor

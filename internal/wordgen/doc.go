// Package wordgen builds the verb corpus: it expands a base verb list,
// curated derivatives and a prefix list into candidate headwords, selects
// a fixed number of unique rows and fills each row's example phrase from
// a round-robin list of templates. Everything here is deterministic and
// free of I/O except LoadSeeds.
package wordgen

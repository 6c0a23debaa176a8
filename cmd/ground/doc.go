// Command ground resolves author names from the Philosophical Transactions
// corpus to Wikidata items and records each decision with its scored
// candidates.
//
// Without flags it grounds every name that has no stored decision yet and
// prints summary statistics. An interrupted run keeps everything written
// so far; the next invocation resumes where it stopped.
//
//	ground --init          create the match table and exit
//	ground --limit 50      ground at most 50 names
//	ground --stats         print statistics and exit
//	ground show NAME       print a decision with its candidate audit
//	ground overrides apply insert curated manual matches
//	ground config init     write a sample configuration file
package main

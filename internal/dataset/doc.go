// Package dataset publishes a genome puzzle dataset: it uploads the paired
// FASTQ reads named in an answer sheet to an S3-compatible bucket, hides the
// answer sheet behind a seeded random object name, and writes the
// file_details.json manifest and curl/wget download scripts the site serves
// from its public directory.
package dataset

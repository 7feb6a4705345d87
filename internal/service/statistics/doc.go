// Package statistics builds the student statistics report: the unfiltered
// department/stage/semester taxonomy used to populate filter controls, and
// the filtered counts and flat breakdowns for one FilterRequest.
//
// Every report probes the schema and rebuilds the taxonomy catalog from
// scratch. The filtered grouped reads are issued concurrently; any failure
// fails the whole report.
//
// Repository implementations live in repository/postgres/.
package statistics

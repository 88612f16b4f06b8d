// Package fileutil provides small file operation utilities.
//
// EnsureDir creates directories recursively, and WriteFileAtomic writes files
// via temp-file-then-rename so concurrent readers never observe partial
// content. These are used for preparing daemon log file directories and for
// publishing pid files that other processes poll.
package fileutil

// Package store defines interfaces for persisting course sessions and
// progress. These interfaces keep the study service independent of how
// the records are stored; platform/filestore provides the JSON file
// implementation.
package store

// Package filestore implements the store interfaces with one JSON file per
// course and record kind in a data directory:
//
//	<dir>/<course>_session.json   the CourseSession
//	<dir>/<course>_progress.json  the completed days as a JSON list
//
// Files are overwritten whole. There is no locking, so the last write wins.
package filestore

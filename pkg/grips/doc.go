// Package grips exposes the editing handles of placed annotations: vertex
// handles, add/remove-vertex handles, a reverse handle and hot handles that
// cycle an enumeration property. Every edit is rebuilt and flushed live and
// is either committed or rolled back to the state seen by Collect.
package grips

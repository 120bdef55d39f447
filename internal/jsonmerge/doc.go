// Package jsonmerge combines a template JSON document into a workspace
// document that may already exist. Values authored in the workspace win over
// template defaults. The merge is shallow: a key present in both documents
// keeps the workspace value wholesale, even when both values are objects.
//
// Merge is a pure function over bytes. MergeFile wraps it with the file
// discipline a bootstrapper needs: read the target once, validate the
// result, and replace the target atomically or not at all.
package jsonmerge

// Package connectors feeds documents into the library and retrieval
// services from outside sources. The filesystem connector watches a
// drop folder; new sources get their own subpackage.
package connectors

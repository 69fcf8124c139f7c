/*
Package persistence keeps a navigation session across restarts.

Two values are stored per session under fixed keys: the navigation stack
(StackKey, a JSON array of node ids) and the search query (QueryKey, a JSON
string). Storage is best effort. A failed or corrupt read yields the default
and a failed write is logged and dropped; neither is ever returned to the
navigation layer.

The middleware subpackage wraps any ports.KVStore, e.g. to encrypt values
at rest.
*/
package persistence

/*
Package navigation holds the per-user navigation state of a flow.

A Stack records which nodes were visited; a Session owns one Stack plus the
current search query and notifies registered observers after every change.
Persistence and deep-link synchronisation are such observers; see the
persistence and deeplink packages.

Observers run synchronously, in registration order, after the state has
changed. A Session is not safe for concurrent use; hosts serving several
callers serialise access per session (see the session package).
*/
package navigation

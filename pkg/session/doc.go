/*
Package session hosts many navigation sessions over one store.

A Manager serialises work per session id, both within the process (reference
counted mutexes) and, optionally, across replicas (ports.DistributedLocker).
Inside the lock it rebuilds the session from storage, wires persistence and
deep-link observers, and hands it to the caller.
*/
package session

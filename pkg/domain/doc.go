/*
Package domain contains the core models of the RISE flow navigator.

It defines the entities of the decision flow and the values exchanged with
hosts. The package is pure: no I/O, no persistence, no rendering.

# Key Entities

  - Node: a single step of the flow (role, title, body, bullets, note, edges).
  - Edge: a labeled, directed choice from one node to another.
  - Role: the staff category a node's guidance is scoped to.
  - View: what a renderer shows for a session (current node or search results, plus breadcrumbs).
*/
package domain

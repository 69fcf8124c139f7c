/*
Package runner drives a riseflow session from a line-oriented terminal or a
JSON-Lines pipe.

Each input line is a command: a number follows that option of the current
node, "b" goes back, "j N" jumps to breadcrumb N, "/text" searches and "/"
clears the search. See ParseCommand for the full list.

# Usage

	sess := eng.Start(ctx, "", loc, r)
	if err := r.Run(ctx, sess); err != nil {
		log.Fatal(err)
	}

Passing the Runner to Start registers it as the first observer, so every
frame is rendered before the session is persisted and the deep link written.
*/
package runner

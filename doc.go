/*
Package riseflow navigates the RISE whole-school behaviour flow: a fixed
decision tree that staff walk node by node, choosing labelled options, with
search over node content, breadcrumbs and shareable deep links.

# Concept

The graph is read-only and shared. Each user gets a Session holding a
navigation stack (never empty, the last entry is the current node) and a
search query. Sessions are persisted after every change and mirrored into a
location fragment when the host has one. Storage and location failures are
absorbed: navigation always keeps working.

# Usage

	eng := riseflow.New()
	ctx := context.Background()

	sess := eng.Start(ctx, "", deeplink.NewMemoryLocation(""))
	sess.Go(ctx, "start-class")
	sess.SetQuery(ctx, "deten")

	view := sess.View()
	if view.Searching {
		for _, n := range view.Results {
			fmt.Println(n.Title)
		}
	}

Hosts serving many users (HTTP, MCP) go through Engine.Sessions, which
serialises access per session id.
*/
package riseflow

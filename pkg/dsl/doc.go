/*
Package dsl provides a fluent Go API for declaring flow graphs in code.

	b := dsl.New()
	b.Add("home").
		Title("Welcome").
		Emphasize("Start", "start")
	b.Add("start").
		Role(domain.RoleClassroomTeacher).
		Title("Start").
		Bullets("first", "second").
		Go("Back home", "home")

	g, err := b.Build()

Nodes keep the order in which they were first added.
*/
package dsl

// Package output writes comparison results as diff text.
//
// A run is laid out as blocks, one per job and table:
//
//	@@ #start# Job: `by_id` Table: `users` @@
//	@@ `users` compare rows with ids from 3 to 5 @@
//	> {"id":4,"name":"[-a-]{+b+}"}
//	- {"id":5,"name":"c"}
//	@@ Job: `by_id` Table: `users` #end# @@
//
// Windows without differences print "@@ No diff @@". The summary package
// parses this format back.
package output

// Package commands exposes Redis commands grouped by data type: Keys,
// Strings, Lists, Sets, SortedSets and Hashes.
//
// Every operation follows the same template. It leases a handle from the
// pool (selecting a database when the group is bound to one), sends exactly
// one command, returns the handle and then converts the reply. The handle is
// returned on every path, before any error reaches the caller.
//
// Groups hold no state beyond the pool and an optional database index, so
// they are cheap to copy and safe for concurrent use:
//
//	c := commands.New(p)
//	if err := c.Strings.Set(ctx, "greeting", "hello"); err != nil {
//		return err
//	}
//	n, err := c.Sets.WithDB(2).SAdd(ctx, "tags", "a", "b")
//
// Absent values (GET of a missing key, LPOP of an empty list, ...) are
// reported as ErrNil. Store failures are errors.ErrorTypeCommand; pool
// failures keep their pool error type.
package commands

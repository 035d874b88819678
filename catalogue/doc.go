// Package catalogue holds the data-only RPC, async, error-code, and
// aux-item tables that the dispatcher consults by name or number. None
// of it has behaviour: every entry is a literal declaration of a schema
// already defined in package schema.
package catalogue

/*
Package camelrow lets application code address entity attributes in
camelCase (application form) while the database schema uses snake_case
(storage form).

A Model overlays an attribute store (a Host) and converts attribute
names at every point where they cross between application code and the
store. Names are converted to storage form on the way in:

 user := camelrow.New(&camelrow.Definition{Table: "users", CamelCase: true})
 user.SetAttribute("firstName", "Ann")  // stored as "first_name"
 v, ok := user.GetAttribute("firstName") // reads "first_name"
 user.IsSet("first_name")               // either casing works

and to application form on the way out, when case enforcement is active:

 user.Attributes() // {firstName:Ann}

The stored names are never changed. A Model whose own flag is off still
reports case enforcement if it is linked to a parent that does. This is
how the linking row of a many-to-many relation follows the convention of
the model that owns the relation.

Attribute names beginning with "pivot_" are reserved for many-to-many
bookkeeping and are never converted to application form.

Field lists

The Hidden, Dates, Fillable and Guarded lists of a Definition may be
declared in either casing. A Model reports them in storage form and
supplies them to its record, so hidden fields are suppressed and date
fields are coerced whichever casing was used to declare them.

Persistence

A Store persists records over "database/sql". It deals only in storage
form. A Repo provides the creation and lookup helpers (Create,
ForceCreate, FirstOrCreate, FirstOrNew, UpdateOrCreate) that accept
application-form mappings, convert them with ToSnakeCase and return models:

 repo := camelrow.NewRepo(camelrow.NewStore(db), userDef)
 user, err := repo.Create(ctx, camelrow.Attrs("firstName", "Ann", "lastName", "Lee"))
 // inserts first_name = "Ann", last_name = "Lee"

Relations declared in a Definition are loaded with Store.Load and read
back with GetAttribute using the exact relation name.
*/
package camelrow

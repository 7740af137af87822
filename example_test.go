package camelrow_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jjeffery/camelrow"
	_ "github.com/mattn/go-sqlite3"
)

func ExampleModel_SetAttribute() {
	user := camelrow.New(&camelrow.Definition{Table: "users", CamelCase: true})
	user.SetAttribute("firstName", "Ann")

	stored, _ := user.Record().Attribute("first_name")
	got, _ := user.GetAttribute("firstName")
	fmt.Println(stored, got)
	// Output:
	// Ann Ann
}

func ExampleModel_Attributes() {
	def := &camelrow.Definition{
		Table:     "users",
		CamelCase: true,
		Hidden:    []string{"apiToken"},
	}
	user := camelrow.New(def)
	user.ForceFill(camelrow.Attrs(
		"first_name", "Ann",
		"last_name", "Lee",
		"api_token", "secret",
		"pivot_role_id", 3,
	))
	fmt.Println(user.Attributes().Keys())

	user.SetCamelCase(false)
	fmt.Println(user.Attributes().Keys())
	// Output:
	// [firstName lastName pivot_role_id]
	// [first_name last_name pivot_role_id]
}

func ExampleWithParent() {
	user := camelrow.New(&camelrow.Definition{Table: "users", CamelCase: true})
	pivot := camelrow.New(&camelrow.Definition{Table: "role_user"}, camelrow.WithParent(user))
	pivot.ForceFill(camelrow.Attrs("user_id", 1, "role_id", 2))

	fmt.Println(pivot.IsCamelCase(), pivot.Attributes().Keys())
	// Output:
	// true [userId roleId]
}

func ExampleModel_MarshalJSON() {
	user := camelrow.New(&camelrow.Definition{
		Table:     "users",
		CamelCase: true,
		Relations: map[string]camelrow.Relation{"roles": camelrow.BelongsToMany{}},
	})
	user.SetAttribute("firstName", "Ann")
	role := camelrow.New(&camelrow.Definition{Table: "roles"})
	role.SetAttribute("role_name", "admin")
	user.SetRelation("roles", []*camelrow.Model{role})

	data, err := json.Marshal(user)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
	// Output:
	// {"firstName":"Ann","roles":[{"role_name":"admin"}]}
}

func ExampleRepo_Create() {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`create table users(id integer primary key, first_name text, last_name text)`); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	users := camelrow.NewRepo(camelrow.NewStore(db), &camelrow.Definition{
		Table:     "users",
		CamelCase: true,
		Fillable:  []string{"firstName", "lastName"},
	})
	user, err := users.Create(ctx, camelrow.Attrs("firstName", "Ann", "lastName", "Lee"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(user.Attributes())

	user, err = users.UpdateOrCreate(ctx, camelrow.Attrs("firstName", "Ann"), camelrow.Attrs("lastName", "Smith"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(user.Attributes())
	// Output:
	// {firstName:Ann lastName:Lee id:1}
	// {id:1 firstName:Ann lastName:Smith}
}

package camelrow

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sqliteSchema = `
create table users(
	id integer primary key autoincrement,
	first_name text,
	last_name text,
	email text,
	api_token text,
	created_at datetime,
	updated_at datetime
);
create table roles(
	id integer primary key,
	role_name text
);
create table role_user(
	user_id integer,
	role_id integer,
	granted_by text
);
create table posts(
	id integer primary key autoincrement,
	user_id integer,
	title text
);
`

type testSchema struct {
	users *Definition
	roles *Definition
	posts *Definition
}

func newTestSchema() *testSchema {
	s := &testSchema{
		users: &Definition{
			Table:      "users",
			CamelCase:  true,
			Timestamps: true,
			Hidden:     []string{"apiToken"},
			Fillable:   []string{"firstName", "lastName", "email"},
		},
		roles: &Definition{Table: "roles"},
		posts: &Definition{Table: "posts", CamelCase: true},
	}
	s.users.Relations = map[string]Relation{
		"roles": BelongsToMany{
			Related:         s.roles,
			Table:           "role_user",
			ForeignPivotKey: "user_id",
			RelatedPivotKey: "role_id",
			PivotColumns:    []string{"granted_by"},
		},
		"posts": HasMany{Related: s.posts, ForeignKey: "user_id"},
	}
	s.posts.Relations = map[string]Relation{
		"author": BelongsTo{Related: s.users, ForeignKey: "user_id"},
	}
	return s
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: opens a different database
	db.SetMaxOpenConns(1)
	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	store := NewStore(db, WithClock(func() time.Time { return testNow }))
	assert.Equal(t, "sqlite", store.Dialect().Name())

	schema := newTestSchema()
	users := NewRepo(store, schema.users)

	user, err := users.Create(ctx, Attrs(
		"firstName", "Ann",
		"lastName", "Lee",
		"email", "ann@example.com",
		"apiToken", "not fillable",
	))
	require.NoError(t, err)
	id, ok := user.GetAttribute("id")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.False(t, user.IsSet("apiToken"))

	found, err := users.Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, []string{"id", "firstName", "lastName", "email", "createdAt", "updatedAt"}, found.Attributes().Keys())
	createdAt, _ := found.GetAttribute("createdAt")
	if assert.IsType(t, time.Time{}, createdAt) {
		assert.True(t, testNow.Equal(createdAt.(time.Time)))
	}
	v, _ := found.Attributes().Get("createdAt")
	assert.Equal(t, "2024-01-02 03:04:05", v)

	// hidden attributes are stored but not serialized
	admin, err := users.ForceCreate(ctx, Attrs("firstName", "Root", "apiToken", "secret"))
	require.NoError(t, err)
	token, _ := admin.GetAttribute("apiToken")
	assert.Equal(t, "secret", token)
	assert.False(t, admin.Attributes().Has("apiToken"))

	missing, err := users.Find(ctx, int64(99))
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := users.UpdateOrCreate(ctx, Attrs("email", "ann@example.com"), Attrs("lastName", "Smith"))
	require.NoError(t, err)
	assert.Equal(t, id, updated.Record().Key())
	found, err = users.First(ctx, Attrs("lastName", "Smith"))
	require.NoError(t, err)
	require.NotNil(t, found)
	v, _ = found.GetAttribute("firstName")
	assert.Equal(t, "Ann", v)

	fresh, err := users.FirstOrNew(ctx, Attrs("email", "bea@example.com"), Attrs("firstName", "Bea"))
	require.NoError(t, err)
	assert.False(t, fresh.Exists())
	v, _ = fresh.GetAttribute("firstName")
	assert.Equal(t, "Bea", v)

	created, err := users.FirstOrCreate(ctx, Attrs("email", "bea@example.com"), Attrs("firstName", "Bea"))
	require.NoError(t, err)
	assert.True(t, created.Exists())
	again, err := users.FirstOrCreate(ctx, Attrs("email", "bea@example.com"), Attrs("firstName", "Other"))
	require.NoError(t, err)
	assert.Equal(t, created.Record().Key(), again.Record().Key())
	v, _ = again.GetAttribute("firstName")
	assert.Equal(t, "Bea", v)
}

func TestSQLiteRelations(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	store := NewStore(db, WithClock(func() time.Time { return testNow }))
	schema := newTestSchema()

	user, err := NewRepo(store, schema.users).Create(ctx, Attrs("firstName", "Ann"))
	require.NoError(t, err)
	userID := user.Record().Key()

	for _, attrs := range []*Attributes{
		Attrs("id", 1, "role_name", "admin"),
		Attrs("id", 2, "role_name", "editor"),
	} {
		_, err := store.ForceCreate(ctx, schema.roles, attrs)
		require.NoError(t, err)
	}
	_, err = db.Exec(`insert into role_user(user_id, role_id, granted_by) values(?, 1, 'root'), (?, 2, 'ann')`, userID, userID)
	require.NoError(t, err)

	posts := NewRepo(store, schema.posts)
	for _, title := range []string{"First post", "Second post"} {
		_, err := posts.Create(ctx, Attrs("userId", userID, "title", title))
		require.NoError(t, err)
	}

	require.NoError(t, store.Load(ctx, user, "roles", "posts"))

	v, ok := user.GetAttribute("roles")
	require.True(t, ok)
	roles, ok := v.([]*Model)
	require.True(t, ok)
	require.Len(t, roles, 2)

	// roles do not enforce case, but the pivot inherits it from the user
	assert.False(t, roles[0].IsCamelCase())
	v, ok = roles[0].GetAttribute("pivot")
	require.True(t, ok)
	pivot := v.(*Model)
	assert.True(t, pivot.IsCamelCase())
	assert.Equal(t, []string{"userId", "roleId", "grantedBy"}, pivot.Attributes().Keys())

	data, err := json.Marshal(roles[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1,
		"role_name": "admin",
		"pivot": {"userId": 1, "roleId": 1, "grantedBy": "root"}
	}`, string(data))

	v, ok = user.GetAttribute("posts")
	require.True(t, ok)
	userPosts := v.([]*Model)
	require.Len(t, userPosts, 2)
	title, _ := userPosts[1].GetAttribute("title")
	assert.Equal(t, "Second post", title)

	require.NoError(t, store.Load(ctx, userPosts[0], "author"))
	v, ok = userPosts[0].GetAttribute("author")
	require.True(t, ok)
	name, _ := v.(*Model).GetAttribute("firstName")
	assert.Equal(t, "Ann", name)

	// a missing foreign key loads as nil
	orphan, err := posts.ForceCreate(ctx, Attrs("title", "Orphan"))
	require.NoError(t, err)
	require.NoError(t, store.Load(ctx, orphan, "author"))
	assert.False(t, orphan.IsSet("author"))
}

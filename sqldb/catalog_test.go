package sqldb

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sharedcode/feedbench"
)

func TestEmbeddedCatalogsAreComplete(t *testing.T) {
	for _, d := range []Dialect{PostgresDialect, SQLiteDialect} {
		c := NewCatalog(d)
		if err := c.Validate(RequiredScripts...); err != nil {
			t.Errorf("%s: %v", d.Name, err)
		}
	}
}

func TestBatchScript(t *testing.T) {
	pg := NewCatalog(PostgresDialect).BatchScript(feedbench.Follows, 3, 2)
	if !strings.Contains(pg, "VALUES ($1, $2), ($3, $4), ($5, $6)") {
		t.Errorf("postgres batch got %q", pg)
	}
	lite := NewCatalog(SQLiteDialect).BatchScript(feedbench.Tweets, 2, 3)
	if !strings.Contains(lite, "VALUES (?, ?, ?), (?, ?, ?)") {
		t.Errorf("sqlite batch got %q", lite)
	}
	if strings.Contains(lite, rowsMarker) {
		t.Error("rows marker left in batch script")
	}
}

func TestLoadCatalogNames(t *testing.T) {
	fsys := fstest.MapFS{
		"s/tweets.select.user_timeline.sql": {Data: []byte(" SELECT 1; ")},
		"s/general.create_table.tweets.sql": {Data: []byte("CREATE TABLE t (a INT)")},
		"s/readme.txt":                      {Data: []byte("ignored")},
	}
	c, err := LoadCatalog(fsys, "s", SQLiteDialect)
	if err != nil {
		t.Fatalf("LoadCatalog failed, details: %v", err)
	}
	if s, ok := c.Script(feedbench.Tweets, feedbench.Select(feedbench.TagUserTimeline)); !ok || s != "SELECT 1;" {
		t.Errorf("got %q, %v", s, ok)
	}
	if _, ok := c.Script(feedbench.General, feedbench.CreateTable("tweets")); !ok {
		t.Error("create_table.tweets not loaded")
	}
	if err := c.Validate(RequiredScripts...); err == nil {
		t.Error("Validate passed on an incomplete catalog")
	}

	bad := fstest.MapFS{"s/users.insert.sql": {Data: []byte("x")}}
	if _, err := LoadCatalog(bad, "s", SQLiteDialect); err == nil {
		t.Error("LoadCatalog accepted an unknown collection")
	}
}

func TestMustScriptPanicsWhenMissing(t *testing.T) {
	c, _ := LoadCatalog(fstest.MapFS{"s/tweets.insert.sql": {Data: []byte("x")}}, "s", SQLiteDialect)
	defer func() {
		if recover() == nil {
			t.Error("MustScript did not panic")
		}
	}()
	c.MustScript(feedbench.Follows, feedbench.Insert)
}

func TestStatements(t *testing.T) {
	got := Statements("DELETE FROM a;\n DELETE FROM b ;\n\n")
	if len(got) != 2 || got[0] != "DELETE FROM a" || got[1] != "DELETE FROM b" {
		t.Errorf("got %q", got)
	}
}

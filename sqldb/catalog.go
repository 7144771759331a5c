package sqldb

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/sharedcode/feedbench"
)

//go:embed scripts
var embeddedScripts embed.FS

// rowsMarker is replaced by the repeated parameter groups of a batch insert.
const rowsMarker = "{{rows}}"

// RequiredScripts lists the statements the adapter cannot run without.
var RequiredScripts = []feedbench.ScriptKey{
	{Collection: feedbench.General, Op: feedbench.CreateTable("tweets")},
	{Collection: feedbench.General, Op: feedbench.CreateTable("follows")},
	{Collection: feedbench.General, Op: feedbench.CreateIndices},
	{Collection: feedbench.General, Op: feedbench.Reset},
	{Collection: feedbench.Tweets, Op: feedbench.Insert},
	{Collection: feedbench.Tweets, Op: feedbench.BatchInsert},
	{Collection: feedbench.Tweets, Op: feedbench.Select(feedbench.TagUserTimeline)},
	{Collection: feedbench.Tweets, Op: feedbench.Select(feedbench.TagUserTweets)},
	{Collection: feedbench.Follows, Op: feedbench.Insert},
	{Collection: feedbench.Follows, Op: feedbench.BatchInsert},
	{Collection: feedbench.Follows, Op: feedbench.Select(feedbench.TagFollowers)},
	{Collection: feedbench.Follows, Op: feedbench.Select(feedbench.TagFollowees)},
}

// Catalog maps (collection, operation) to a parameterized statement body. It is built once
// at startup and shared read-only by the adapter and its transactions.
type Catalog struct {
	dialect Dialect
	scripts map[feedbench.ScriptKey]string
}

// NewCatalog loads the embedded scripts of the dialect. A missing required script is a
// startup contract violation and panics.
func NewCatalog(d Dialect) *Catalog {
	c, err := LoadCatalog(embeddedScripts, path.Join("scripts", d.Scripts), d)
	if err != nil {
		panic(err)
	}
	if err := c.Validate(RequiredScripts...); err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads every *.sql file of dir. File names take the form
// <collection>.<op>[.<arg>].sql, e.g. tweets.select.user_timeline.sql.
func LoadCatalog(fsys fs.FS, dir string, d Dialect) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scripts dir %s: %w", dir, err)
	}
	c := &Catalog{
		dialect: d,
		scripts: make(map[feedbench.ScriptKey]string, len(entries)),
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		key, err := parseScriptName(strings.TrimSuffix(e.Name(), ".sql"))
		if err != nil {
			return nil, err
		}
		ba, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read script %s: %w", e.Name(), err)
		}
		c.scripts[key] = strings.TrimSpace(string(ba))
	}
	return c, nil
}

var collections = map[string]feedbench.Collection{
	"general": feedbench.General,
	"tweets":  feedbench.Tweets,
	"follows": feedbench.Follows,
}

var opKinds = map[string]feedbench.OpKind{
	"create_table":   feedbench.OpCreateTable,
	"create_indices": feedbench.OpCreateIndices,
	"reset":          feedbench.OpReset,
	"insert":         feedbench.OpInsert,
	"batch_insert":   feedbench.OpBatchInsert,
	"select":         feedbench.OpSelect,
}

func parseScriptName(name string) (feedbench.ScriptKey, error) {
	parts := strings.SplitN(name, ".", 3)
	if len(parts) < 2 {
		return feedbench.ScriptKey{}, fmt.Errorf("script name %q must be <collection>.<op>[.<arg>]", name)
	}
	coll, ok := collections[parts[0]]
	if !ok {
		return feedbench.ScriptKey{}, fmt.Errorf("script %q names unknown collection %q", name, parts[0])
	}
	kind, ok := opKinds[parts[1]]
	if !ok {
		return feedbench.ScriptKey{}, fmt.Errorf("script %q names unknown operation %q", name, parts[1])
	}
	op := feedbench.Operation{Kind: kind}
	if len(parts) == 3 {
		op.Arg = parts[2]
	}
	return feedbench.ScriptKey{Collection: coll, Op: op}, nil
}

// Validate returns an error naming the first key without a script.
func (c *Catalog) Validate(keys ...feedbench.ScriptKey) error {
	for _, k := range keys {
		if _, ok := c.scripts[k]; !ok {
			return fmt.Errorf("%s: missing sql script %s", c.dialect.Name, k)
		}
	}
	return nil
}

// Dialect returns the dialect the catalog was loaded for.
func (c *Catalog) Dialect() Dialect {
	return c.dialect
}

// Script looks a statement up.
func (c *Catalog) Script(coll feedbench.Collection, op feedbench.Operation) (string, bool) {
	s, ok := c.scripts[feedbench.ScriptKey{Collection: coll, Op: op}]
	return s, ok
}

// MustScript looks a statement up and panics when it is missing.
func (c *Catalog) MustScript(coll feedbench.Collection, op feedbench.Operation) string {
	s, ok := c.Script(coll, op)
	if !ok {
		panic(fmt.Sprintf("%s: missing sql script %s", c.dialect.Name, feedbench.ScriptKey{Collection: coll, Op: op}))
	}
	return s
}

// BatchScript expands the batch insert of coll for rows parameter groups of arity values.
func (c *Catalog) BatchScript(coll feedbench.Collection, rows, arity int) string {
	body := c.MustScript(coll, feedbench.BatchInsert)
	var sb strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for a := 0; a < arity; a++ {
			if a > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.dialect.placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return strings.Replace(body, rowsMarker, sb.String(), 1)
}

// Statements splits a multi-statement script (schema, reset) on semicolons.
func Statements(script string) []string {
	var out []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

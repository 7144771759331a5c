package feedbench

import "fmt"

// Collection is a logical grouping of records, addressed independently of the
// table or key names a backend uses for it.
type Collection string

const (
	General Collection = "General"
	Tweets  Collection = "Tweets"
	Follows Collection = "Follows"
)

// Tag selects which read a Get runs for a collection.
type Tag string

const (
	TagUserTimeline Tag = "user_timeline"
	TagUserTweets   Tag = "user_tweets"
	TagFollowers    Tag = "followers"
	TagFollowees    Tag = "followees"
)

// OpKind enumerates the statement kinds a backend keeps scripts for.
type OpKind int

const (
	OpCreateTable OpKind = iota
	OpCreateIndices
	OpReset
	OpInsert
	OpBatchInsert
	OpSelect
)

func (o OpKind) String() string {
	switch o {
	case OpCreateTable:
		return "CREATE_TABLE"
	case OpCreateIndices:
		return "CREATE_INDICES"
	case OpReset:
		return "RESET"
	case OpInsert:
		return "INSERT"
	case OpBatchInsert:
		return "BATCH_INSERT"
	case OpSelect:
		return "SELECT"
	}
	return fmt.Sprintf("OP_%d", int(o))
}

// Operation is an OpKind qualified by an optional argument: the table name for
// OpCreateTable, the read tag for OpSelect.
type Operation struct {
	Kind OpKind
	Arg  string
}

func CreateTable(name string) Operation { return Operation{Kind: OpCreateTable, Arg: name} }
func Select(tag Tag) Operation           { return Operation{Kind: OpSelect, Arg: string(tag)} }

var (
	CreateIndices = Operation{Kind: OpCreateIndices}
	Reset         = Operation{Kind: OpReset}
	Insert        = Operation{Kind: OpInsert}
	BatchInsert   = Operation{Kind: OpBatchInsert}
)

func (o Operation) String() string {
	if o.Arg == "" {
		return o.Kind.String()
	}
	return fmt.Sprintf("%s_%s", o.Kind, o.Arg)
}

// ScriptKey addresses one statement body in a backend's script catalog.
type ScriptKey struct {
	Collection Collection
	Op         Operation
}

func (k ScriptKey) String() string {
	return fmt.Sprintf("%s:%s", k.Collection, k.Op)
}

package query

// Mutation names a successful write
type Mutation string

const (
	FeedCreated      Mutation = "feed.created"
	FeedUpdated      Mutation = "feed.updated"
	FeedDeleted      Mutation = "feed.deleted"
	FeedRefreshed    Mutation = "feed.refreshed"
	ArticleUpdated   Mutation = "article.updated"
	TagAttached      Mutation = "tag.attached"
	TagDetached      Mutation = "tag.detached"
	HighlightCreated Mutation = "highlight.created"
	HighlightUpdated Mutation = "highlight.updated"
	HighlightDeleted Mutation = "highlight.deleted"
)

// Scope selects the whole family or only the key matching the mutation's id
type Scope int

const (
	ScopeAll Scope = iota
	ScopeSame
)

// Target is one edge of the invalidation graph
type Target struct {
	Resource Resource
	Scope    Scope
}

// Graph maps each mutation to the reads it can affect
type Graph map[Mutation][]Target

func all(r Resource) Target  { return Target{Resource: r, Scope: ScopeAll} }
func same(r Resource) Target { return Target{Resource: r, Scope: ScopeSame} }

// DefaultGraph is the invalidation contract of the client. For tag and
// highlight mutations the id is the article id.
var DefaultGraph = Graph{
	FeedCreated:      {all(Feeds)},
	FeedUpdated:      {all(Feeds)},
	FeedDeleted:      {all(Feeds), all(Articles), all(Article), all(Highlights)},
	FeedRefreshed:    {all(Feeds), all(Articles)},
	ArticleUpdated:   {all(Articles), same(Article)},
	TagAttached:      {all(Articles), same(Article), all(Tags)},
	TagDetached:      {all(Articles), same(Article), all(Tags)},
	HighlightCreated: {same(Highlights), same(Article)},
	HighlightUpdated: {same(Highlights), same(Article)},
	HighlightDeleted: {same(Highlights), same(Article)},
}

package agent

import (
	"fmt"

	"github.com/duynguyendang/pdfdesk/pkg/chat"
	"github.com/duynguyendang/pdfdesk/pkg/docstore"
)

// Injector turns the current document cache into conversation turns before a
// model call. It is an explicit pipeline stage: the agent composes it in
// front of every completion, and it never touches the store beyond reading a
// snapshot.
type Injector struct {
	store *docstore.Store
}

// NewInjector creates an Injector over the given store.
func NewInjector(store *docstore.Store) *Injector {
	return &Injector{store: store}
}

// Inject prepends one (document, acknowledgment) turn pair per cached entry
// to the given turns. The pair keeps the sequence alternating the way the
// model API expects. With an empty cache the input comes back content-
// identical. Documents appear in identifier order, so two runs over the same
// cache state produce structurally identical output.
func (inj *Injector) Inject(messages []chat.Message) []chat.Message {
	docs := inj.store.Snapshot()
	if len(docs) == 0 {
		out := make([]chat.Message, len(messages))
		copy(out, messages)
		return out
	}

	out := make([]chat.Message, 0, 2*len(docs)+len(messages))
	for _, doc := range docs {
		out = append(out,
			chat.Message{Role: chat.RoleUser, Blocks: []chat.Block{
				{
					Type: chat.BlockDocument,
					Document: &chat.DocumentBlock{
						Data:      doc.Data,
						MediaType: "application/pdf",
						Ephemeral: true,
					},
				},
				chat.TextBlock(fmt.Sprintf("Document '%s' is provided above for analysis.", doc.Identifier)),
			}},
			chat.AssistantText(fmt.Sprintf("I can see document '%s'. It is loaded and ready for analysis.", doc.Identifier)),
		)
	}
	return append(out, messages...)
}

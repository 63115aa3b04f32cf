package visibility

import (
	"context"

	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/engine"
)

// Post is the listing-side view of a content node.
type Post struct {
	ID           core.ContentID `json:"id"`
	Title        string         `json:"title"`
	Body         string         `json:"body"`
	Excerpt      string         `json:"excerpt"`
	CommentsOpen bool           `json:"comments_open"`
}

// Messages are the texts shown in place of gated content.
type Messages struct {
	LoginRequired string
	Unauthorized  string
}

// DefaultMessages mirrors what the content platform renders for gated
// posts.
var DefaultMessages = Messages{
	LoginRequired: "You need to sign in through skautIS to see this content.",
	Unauthorized:  "You are not authorized to see this content.",
}

// FilterListing applies visibility decisions to a listing. Posts hidden
// in full mode are removed and the running total is decremented once
// per removed post; posts hidden in content mode stay listed with their
// body and excerpt replaced and comments closed.
func (r *Resolver) FilterListing(ctx context.Context, posts []Post, total int, mgr *engine.Manager, canEdit bool, msgs Messages) ([]Post, int, error) {
	out := make([]Post, 0, len(posts))
	for _, post := range posts {
		decision, err := r.Resolve(ctx, post.ID, mgr, canEdit)
		if err != nil {
			return nil, total, err
		}

		if decision.Outcome == OutcomeVisible {
			out = append(out, post)
			continue
		}

		if decision.Mode == core.VisibilityContent {
			replacement := msgs.Unauthorized
			if decision.Outcome == OutcomeLoginRequired {
				replacement = msgs.LoginRequired
			}
			post.Body = replacement
			post.Excerpt = replacement
			post.CommentsOpen = false
			out = append(out, post)
			continue
		}

		// full mode: drop the post and the count it contributed
		total--
	}
	return out, total, nil
}

package upstream

import "context"

type IdentityClient struct {
	c Client
}

func NewIdentityClient(c Client) *IdentityClient { return &IdentityClient{c: c} }

// Users resolves profiles by id. An empty id list succeeds without a call.
func (i *IdentityClient) Users(ctx context.Context, ids []string) Result[[]UserProfile] {
	if len(ids) == 0 {
		return Success([]UserProfile{})
	}
	return PostJSON[[]UserProfile](ctx, i.c, "/api/users/bulk", bulkRequest{IDs: ids})
}

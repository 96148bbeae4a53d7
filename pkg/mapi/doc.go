// Package mapi defines the public types of the management API client: the
// namespace model, the request and response models, the error taxonomy and
// the paginated stream abstraction.
//
// Construct a client with pkg/mapiclient:
//
//	client, err := mapiclient.New(&mapi.Config{
//		Address:  "mgmt.example.com",
//		Username: "admin",
//		Password: mapi.NewSecret("hunter2"),
//	})
//	if err != nil { ... }
//
//	resp, err := client.Send(ctx, mapi.NewGetRequest(
//		mapi.APIConfiguration, "conference", "42"))
//
// Collection fetches return a lazily-paginated stream:
//
//	resp, err := client.Send(ctx, mapi.NewGetAllRequest(
//		mapi.APIConfiguration, "conference", nil, 100, 0, 0))
//	for {
//		obj, err := resp.Stream.Next(ctx)
//		if errors.Is(err, mapi.ErrNoMoreItems) {
//			break
//		}
//		...
//	}
package mapi

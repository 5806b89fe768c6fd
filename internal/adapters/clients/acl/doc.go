// Package acl is the anti-corruption layer between the remote quote server
// and the domain.
//
// The remote server speaks its own vocabulary (posts with a title, a body
// and a numeric id). Adapters in this package own those wire types, map
// them to [domain.Quote], and turn every transport, status or decoding
// failure into a domain error so that nothing above the adapter ever sees
// an HTTP status code:
//
//   - 401/403 → [domain.ErrForbidden]
//   - any other non-2xx status, transport error, open circuit or exhausted
//     retries → [domain.ErrUnavailable]
//
// [BaseAdapter] carries the shared request and error-mapping plumbing;
// [PostsClient] is the adapter for JSONPlaceholder-style post collections.
package acl

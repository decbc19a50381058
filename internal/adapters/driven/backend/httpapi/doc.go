// Package httpapi talks to the segmentation backend over HTTP.
//
// Client implements driven.ReviewBackend against the JSON endpoints
// (/ayahs, /split/{id}, /split_custom/{id}, /approve/{id}). EventStream
// implements driven.EventSource over the /events Server-Sent Events
// endpoint; each frame's data line carries a {"type", "data"} object.
//
// Any non-2xx response is reported as a *domain.BackendError carrying the
// response status text. Response bodies of failed calls are not parsed.
package httpapi

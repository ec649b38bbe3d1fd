// Package conceptev is a client for the ConceptEV vehicle-concept API.
//
// A Session holds the base URL, the caller's bearer token and default query
// parameters (usually design_instance_id) and sends every request through a
// single HTTP client. Resources are addressed by Route; reads, creates,
// updates and uploads return a *Response or a *RemoteRequestError, and
// deletes succeed only on 204 No Content.
//
// Higher-level helpers build on the session: PollResults waits for the
// results of a started job, and CreateNewProject and CreateSubmitJob chain
// OCM and ConceptEV calls into the workflows the CLI exposes.
package conceptev

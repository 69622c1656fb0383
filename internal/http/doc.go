// Package http provides the HTTP configuration surface and inbound event
// webhook for the outreach scheduler.
//
// The router exposes the following endpoints:
//   - GET /rooms/{id} and GET /rooms/{id}/timezone: report a room's timezone
//     override. Unknown rooms are reported with no override rather than 404,
//     since rooms exist lazily.
//   - PUT /rooms/{id}/timezone: set or clear the override. Body:
//     {"timezone":"Europe/Berlin"}; an empty name clears it.
//   - GET /rooms/{id}/prompts: list the room's prompts.
//   - PUT /rooms/{id}/prompts/{name}: create a prompt or replace its message
//     template. Body: {"message_template": ...}. An existing schedule is kept.
//   - PUT /rooms/{id}/prompts/{name}/schedule: schedule the prompt from
//     expressions. Body: {"at":"today 21:00","every":"1d","max_random_delay":"30m"};
//     `every` and `max_random_delay` are optional. Invalid expressions come
//     back as 422 with per-field messages.
//   - DELETE /rooms/{id}/prompts/{name}/schedule: unschedule the prompt,
//     keeping its template.
//   - DELETE /rooms/{id}/prompts/{name}: delete the prompt. History rows
//     referencing it are retained.
//   - GET /rooms/{id}/history: download the room's outreach/response history
//     as CSV.
//   - POST /events: inbound chat events. Body carries "type" ("reply" or
//     "reaction") plus the identifiers defined by eventRequest in
//     event_handler.go. Events that answer nothing tracked are accepted and
//     dropped.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http

// Package mention implements @user and #group mentions for the message
// composer: detecting a trigger while typing, filtering candidates,
// keyboard navigation of the suggestion list, inserting the chosen token,
// extracting mentioned IDs at send time and rendering stored messages with
// the mentions wrapped in markup.
//
// Everything here is synchronous and free of I/O. The entity directory and
// the conversation scope are passed explicitly on every call.
//
// Text offsets (trigger start, cursor) are byte offsets into the text.
package mention

// Package models defines the domain models shared by the rollcall client.
//
// # Models
//
//   - GroupOption: one selectable entry of the group selection list
//   - Member: a person listed in a group roster
//   - Entry: one logged attendance record as last confirmed by the server
//   - EntryUpdate: the editable part of an Entry sent on save
//   - Action: the attendance transition being logged
//
// # Identity
//
// The backend has no surrogate key for logged entries. An Entry is
// identified by its full field values, so the client always sends the
// exact snapshot the server rendered (including fields it does not know
// about) when updating or deleting.
package models

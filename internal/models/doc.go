// Package models defines the core domain models for the bookmarks service.
//
// # Models
//
//   - Account: a user identity, addressed in URLs by its username
//   - Bookmark: a URI and description owned by exactly one account
//
// # Design Principles
//
//  1. **No object graph**: a Bookmark references its owner by AccountID and an
//     Account carries no bookmark collection. Listing an account's bookmarks is
//     an explicit store query.
//  2. **Store-assigned identity**: IDs are numeric and assigned on create.
//  3. **Safe serialization**: passwords and owner references never leave the
//     service in JSON.
package models

// Package deliver coordinates "persist, then attempt live push" for direct
// messages and social-interaction notifications.
//
// Both components are stateless: the collaborator writes its durable record
// first, then hands it here for exactly one push attempt. A miss is not an
// error; the recipient sees the record on their next pull.
package deliver

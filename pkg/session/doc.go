/*
Package session implements client session management.

A session carries the user, the CRM page context the platform is embedded
on, and the session-scoped configuration overlay. The Manager serializes
access per session ID so concurrent triggers on one session do not race on
the overlay, while triggers on different sessions proceed in parallel.
*/
package session

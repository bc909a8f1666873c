// Package resource links external files into a session directory.
//
// Ownership boundary:
// - validation of the session directory and the source file
// - link naming, including collision disambiguation
//
// The importer never removes or replaces existing entries. Only the
// immediate target of an existing link is compared; chains are not followed.
package resource

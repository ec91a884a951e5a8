// Package auth implements registration and login for local accounts.
//
// Credentials are verified through the Hasher interface (bcrypt by
// default), so the user store only ever holds encoded passwords. Login
// state is kept in server-side sessions persisted to the application's
// SQLite database via scs.
package auth

package walkthrough

import (
	"context"
	"database/sql"
	"errors"

	"fullyhacks/internal/model"
	"fullyhacks/internal/store"
	"fullyhacks/internal/trace"
)

// Run creates, reads, updates and deletes users in st, narrating each step
// through the tracer attached to ctx. It stops at the first narration whose
// source cannot be read and returns that error.
func Run(ctx context.Context, st *store.Store) (err error) {
	defer trace.Recover(&err)
	db := st.DB()

	// First, set up the database by executing the schema.
	// This is executed every time the program is run, so the schema has to
	// check if the table already exists.
	if _, err := db.ExecContext(ctx, store.Schema); err != nil {
		return err
	}
	// Start from an empty table so that ids begin at 1 on every run.
	if err := st.Reset(ctx); err != nil {
		return err
	}

	// Add some users.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		"alice", "1234",
	); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		"bob", "1234",
	); err != nil {
		return err
	}

	// Print Alice.

	// First, we fetch the row from the database.
	// This returns a raw *sql.Row that still has to be scanned.
	aliceRow := db.QueryRowContext(ctx,
		"SELECT id, username, password, bio FROM users WHERE username = ?",
		"alice",
	)

	// Then, we scan the row into a User.
	alice, err := store.ScanUser(aliceRow)
	if err != nil {
		return err
	}

	// Finally, we print the user.
	trace.Print(ctx, "Alice:", &alice)

	// Do the same for all users. Every row is scanned the same way.
	userRows, err := db.QueryContext(ctx, "SELECT id, username, password, bio FROM users")
	if err != nil {
		return err
	}
	defer userRows.Close()
	users := model.Users{}
	for userRows.Next() {
		u, err := store.ScanUser(userRows)
		if err != nil {
			return err
		}
		users = append(users, u)
	}
	if err := userRows.Err(); err != nil {
		return err
	}
	trace.Print(ctx, "Users:", users)

	// Make our life easier by creating a function to fetch users.
	getUser := func(username string) (*model.User, error) {
		row := db.QueryRowContext(ctx,
			"SELECT id, username, password, bio FROM users WHERE username = ?",
			username,
		)
		u, err := store.ScanUser(row)
		// There may be no row if the user does not exist.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &u, nil
	}

	// Give Alice a bio.
	if _, err := db.ExecContext(ctx, "UPDATE users SET bio = ? WHERE username = ?", "I am Alice", "alice"); err != nil {
		return err
	}

	// Print Alice again to see the changes.
	updated, err := getUser("alice")
	if err != nil {
		return err
	}
	trace.Print(ctx, "Alice:", updated)

	// Delete Bob.
	if _, err := db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", "bob"); err != nil {
		return err
	}

	// Observe that Bob is gone.
	bob, err := getUser("bob")
	if err != nil {
		return err
	}
	trace.Print(ctx, "Bob:", bob)

	return nil
}

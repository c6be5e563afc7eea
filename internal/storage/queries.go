package storage

const (
	queryCreateUser = `
		INSERT INTO users (username, hashed_password, monthly_budget)
		VALUES (?, ?, 0)
		RETURNING id`

	queryGetUserByID = `
		SELECT id, username, hashed_password, monthly_budget
		FROM users
		WHERE id = ?`

	queryGetUserByUsername = `
		SELECT id, username, hashed_password, monthly_budget
		FROM users
		WHERE username = ?`

	queryUpdateBudget = `
		UPDATE users
		SET monthly_budget = ?
		WHERE id = ?`

	queryCreateExpense = `
		INSERT INTO expenses (user_id, date, category, amount, description)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	queryGetExpense = `
		SELECT id, user_id, date, category, amount, description
		FROM expenses
		WHERE id = ?`

	queryListExpenses = `
		SELECT id, user_id, date, category, amount, description
		FROM expenses
		WHERE user_id = ?
		ORDER BY id`

	queryDeleteExpense = `
		DELETE FROM expenses
		WHERE id = ?`
)

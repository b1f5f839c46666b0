package sqldb

// Dialect holds the statements whose syntax differs between MySQL and SQLite.
// Everything else is shared.
type Dialect struct {
	Name string

	seedPropertySQL            string
	upsertOccupancySQL         string
	insertOccupancyIfAbsentSQL string
	upsertMonthlyRentSQL       string
	lockSuffix                 string
	// centsMoney stores amounts as INTEGER cents so SUM stays exact.
	centsMoney bool
}

var MySQL = Dialect{
	Name: "mysql",
	seedPropertySQL: `
INSERT INTO properties (name, category, active, color)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE id = id
`,
	upsertOccupancySQL: `
INSERT INTO occupancy (property_id, stay_date, price, origin, note)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  price  = VALUES(price),
  origin = VALUES(origin),
  note   = VALUES(note)
`,
	// id = id leaves the row untouched, so RowsAffected is 0 on a duplicate.
	insertOccupancyIfAbsentSQL: `
INSERT INTO occupancy (property_id, stay_date, price, origin, note)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE id = id
`,
	upsertMonthlyRentSQL: `
INSERT INTO monthly_rent (property_id, rent_year, rent_month, amount, note)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  amount = VALUES(amount),
  note   = VALUES(note)
`,
	lockSuffix: " FOR UPDATE",
}

var SQLite = Dialect{
	Name: "sqlite",
	seedPropertySQL: `
INSERT INTO properties (name, category, active, color)
VALUES (?, ?, ?, ?)
ON CONFLICT (name) DO NOTHING
`,
	upsertOccupancySQL: `
INSERT INTO occupancy (property_id, stay_date, price, origin, note)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (property_id, stay_date) DO UPDATE SET
  price  = excluded.price,
  origin = excluded.origin,
  note   = excluded.note
`,
	insertOccupancyIfAbsentSQL: `
INSERT INTO occupancy (property_id, stay_date, price, origin, note)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (property_id, stay_date) DO NOTHING
`,
	upsertMonthlyRentSQL: `
INSERT INTO monthly_rent (property_id, rent_year, rent_month, amount, note)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (property_id, rent_year, rent_month) DO UPDATE SET
  amount = excluded.amount,
  note   = excluded.note
`,
	centsMoney: true,
}

// -----------------------------------------------------------------------------
// PROPERTIES
// -----------------------------------------------------------------------------

const selectPropertySQL = `SELECT id, name, category, active, color FROM properties`

const setPropertyActiveSQL = `UPDATE properties SET active = ? WHERE id = ?`

// -----------------------------------------------------------------------------
// LEDGERS
// -----------------------------------------------------------------------------

const deleteOccupancySQL = `DELETE FROM occupancy WHERE property_id = ? AND stay_date = ?`

const deleteOccupancyByIDSQL = `DELETE FROM occupancy WHERE id = ?`

const updateOccupancyPriceNoteSQL = `UPDATE occupancy SET price = ?, note = ? WHERE id = ?`

const selectOccupancyOriginSQL = `SELECT origin FROM occupancy WHERE id = ?`

const listOccupancySQL = `
SELECT o.id, o.property_id, o.stay_date, o.price, o.origin, o.note, p.name
FROM occupancy o
JOIN properties p ON p.id = o.property_id
WHERE o.stay_date BETWEEN ? AND ?
ORDER BY o.stay_date, p.name
`

const listByOriginSQL = `
SELECT o.id, o.property_id, o.stay_date, o.price, o.origin, o.note, p.name
FROM occupancy o
JOIN properties p ON p.id = o.property_id
WHERE LOWER(o.origin) = LOWER(?)
ORDER BY o.stay_date DESC, o.id DESC
LIMIT ?
`

const deleteMonthlyRentSQL = `DELETE FROM monthly_rent WHERE property_id = ? AND rent_year = ? AND rent_month = ?`

const listMonthlyRentSQL = `
SELECT r.id, r.property_id, r.rent_year, r.rent_month, r.amount, r.note, p.name
FROM monthly_rent r
JOIN properties p ON p.id = r.property_id
WHERE r.rent_year = ?
ORDER BY r.rent_month, p.name
`

const insertExpenseSQL = `
INSERT INTO expenses (property_id, expense_date, amount, category, description)
VALUES (?, ?, ?, ?, ?)
`

const deleteExpenseSQL = `DELETE FROM expenses WHERE id = ?`

// -----------------------------------------------------------------------------
// AGGREGATES
// -----------------------------------------------------------------------------

const incomeByOriginSQL = `
SELECT p.id, p.name, p.category, o.origin, COUNT(*), COALESCE(SUM(o.price), 0)
FROM occupancy o
JOIN properties p ON p.id = o.property_id
WHERE o.stay_date BETWEEN ? AND ?
GROUP BY p.id, p.name, p.category, o.origin
ORDER BY p.id, o.origin
`

const rentIncomeSQL = `
SELECT p.id, p.name, p.category, COUNT(*), COALESCE(SUM(r.amount), 0)
FROM monthly_rent r
JOIN properties p ON p.id = r.property_id
WHERE r.rent_year = ?
GROUP BY p.id, p.name, p.category
ORDER BY p.id
`

const expensesByCategorySQL = `
SELECT e.property_id, p.name, e.category, COALESCE(SUM(e.amount), 0)
FROM expenses e
LEFT JOIN properties p ON p.id = e.property_id
WHERE e.expense_date BETWEEN ? AND ?
GROUP BY e.property_id, p.name, e.category
ORDER BY e.property_id IS NULL, e.property_id, e.category
`

const generalExpenseTotalSQL = `
SELECT COALESCE(SUM(amount), 0)
FROM expenses
WHERE property_id IS NULL AND expense_date BETWEEN ? AND ?
`

const incomeDetailSQL = `
SELECT o.stay_date, p.name, o.price, o.origin, o.note
FROM occupancy o
JOIN properties p ON p.id = o.property_id
WHERE o.stay_date BETWEEN ? AND ?
`

// A property filter keeps general expenses in the listing.
const expenseDetailSQL = `
SELECT e.id, e.expense_date, p.name, e.category, e.amount, e.description
FROM expenses e
LEFT JOIN properties p ON p.id = e.property_id
WHERE e.expense_date BETWEEN ? AND ?
`

const propertyTotalsSQL = `
SELECT p.id, p.name, p.category, p.active, p.color,
  COALESCE((SELECT SUM(o.price) FROM occupancy o
            WHERE o.property_id = p.id AND o.stay_date BETWEEN ? AND ?), 0),
  (SELECT COUNT(*) FROM occupancy o
   WHERE o.property_id = p.id AND o.stay_date BETWEEN ? AND ?),
  COALESCE((SELECT SUM(r.amount) FROM monthly_rent r
            WHERE r.property_id = p.id AND r.rent_year * 100 + r.rent_month BETWEEN ? AND ?), 0),
  COALESCE((SELECT SUM(e.amount) FROM expenses e
            WHERE e.property_id = p.id AND e.expense_date BETWEEN ? AND ?), 0)
FROM properties p
`

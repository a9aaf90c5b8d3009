package postgres

const (
	selectItems = `
SELECT id, name, category, unit, minimum_threshold, cost, price, vendor_ref, created_at, updated_at
FROM inventory.items
ORDER BY id`

	selectBatches = `
SELECT id, item_id, quantity, expiration_date, received_date, disposed, disposed_at
FROM inventory.batches
ORDER BY item_id, position`

	upsertItem = `
INSERT INTO inventory.items (id, name, category, unit, minimum_threshold, cost, price, vendor_ref, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    category = EXCLUDED.category,
    minimum_threshold = EXCLUDED.minimum_threshold,
    cost = EXCLUDED.cost,
    price = EXCLUDED.price,
    vendor_ref = EXCLUDED.vendor_ref,
    updated_at = EXCLUDED.updated_at`

	deleteItem = `DELETE FROM inventory.items WHERE id = $1`

	deleteBatchesForItem = `DELETE FROM inventory.batches WHERE item_id = $1`

	insertBatch = `
INSERT INTO inventory.batches (id, item_id, position, quantity, expiration_date, received_date, disposed, disposed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectReservations = `
SELECT id, order_id, status, created_at, expires_at, manager_override, override_reason, resolved_at, resolution_reason
FROM inventory.reservations
ORDER BY created_at, id`

	selectReservationLines = `
SELECT reservation_id, item_id, quantity
FROM inventory.reservation_lines
ORDER BY reservation_id, position`

	upsertReservation = `
INSERT INTO inventory.reservations (id, order_id, status, created_at, expires_at, manager_override, override_reason, resolved_at, resolution_reason)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    status = EXCLUDED.status,
    resolved_at = EXCLUDED.resolved_at,
    resolution_reason = EXCLUDED.resolution_reason`

	insertReservationLine = `
INSERT INTO inventory.reservation_lines (reservation_id, position, item_id, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (reservation_id, position) DO NOTHING`

	upsertSnapshot = `
INSERT INTO inventory.day_snapshots (item_id, taken_at, taken_by, batches)
VALUES ($1, $2, $3, $4)
ON CONFLICT (item_id) DO UPDATE SET
    taken_at = EXCLUDED.taken_at,
    taken_by = EXCLUDED.taken_by,
    batches = EXCLUDED.batches`

	selectSnapshot = `
SELECT taken_at, taken_by, batches
FROM inventory.day_snapshots
WHERE item_id = $1`

	deleteSnapshot = `DELETE FROM inventory.day_snapshots WHERE item_id = $1`

	insertAudit = `
INSERT INTO inventory.audit_log (action, item_id, reservation_id, actor, occurred_at, detail)
VALUES ($1, $2, $3, $4, $5, $6)`
)

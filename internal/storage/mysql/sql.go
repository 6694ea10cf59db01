package mysql

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

const insertRoomSQL = `
INSERT INTO rooms
  (room_number, room_type, floor, price, status, max_occupancy, description, amenities, images)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms SET
  room_number   = ?,
  room_type     = ?,
  floor         = ?,
  price         = ?,
  status        = ?,
  max_occupancy = ?,
  description   = ?,
  amenities     = ?,
  images        = ?
WHERE id = ?
`

const selectRoomCols = `
SELECT id, room_number, room_type, floor, price, status, max_occupancy,
       description, amenities, images, created_at, updated_at
FROM rooms
`

// A room is free for [checkin, checkout) iff no active reservation overlaps
// the half-open range. Occupancy is derived from reservations only; the
// status column is a catalog attribute, not an availability source.
const listAvailableRoomsSQL = selectRoomCols + `
WHERE id NOT IN (
  SELECT room_id FROM reservations
  WHERE check_in_date < ?
    AND check_out_date > ?
    AND status IN ('CONFIRMED', 'CHECKED_IN')
)
ORDER BY room_number
`

// A room is occupied iff an active reservation covers the given date.
const listOccupiedRoomsSQL = selectRoomCols + `
WHERE id IN (
  SELECT room_id FROM reservations
  WHERE check_in_date <= ?
    AND check_out_date >= ?
    AND status IN ('CONFIRMED', 'CHECKED_IN')
)
ORDER BY room_number
`

// -----------------------------------------------------------------------------
// GUESTS
// -----------------------------------------------------------------------------

const insertGuestSQL = `
INSERT INTO guests
  (first_name, last_name, email, phone, id_document, vip)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const selectGuestCols = `
SELECT id, first_name, last_name, email, phone, id_document, vip, created_at, updated_at
FROM guests
`

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

const insertReservationSQL = `
INSERT INTO reservations
  (reservation_number, guest_id, room_id, check_in_date, check_out_date,
   number_of_guests, status, total_amount, paid_amount, special_requests,
   actual_check_in_date, actual_check_out_date)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateReservationSQL = `
UPDATE reservations SET
  guest_id              = ?,
  room_id               = ?,
  check_in_date         = ?,
  check_out_date        = ?,
  number_of_guests      = ?,
  status                = ?,
  total_amount          = ?,
  special_requests      = ?,
  actual_check_in_date  = ?,
  actual_check_out_date = ?
WHERE id = ?
`

// Compare-and-set on the stored status: a concurrent transition loses and
// updates zero rows. COALESCE keeps previously recorded actual dates.
const transitionReservationSQL = `
UPDATE reservations SET
  status                = ?,
  actual_check_in_date  = COALESCE(?, actual_check_in_date),
  actual_check_out_date = COALESCE(?, actual_check_out_date)
WHERE id = ? AND status = ?
`

const selectReservationCols = `
SELECT id, reservation_number, guest_id, room_id, check_in_date, check_out_date,
       number_of_guests, status, total_amount, paid_amount, special_requests,
       actual_check_in_date, actual_check_out_date, created_at, updated_at
FROM reservations
`

// Half-open interval overlap: [a1,b1) and [a2,b2) overlap iff a1 < b2 AND
// a2 < b1. Only CONFIRMED/CHECKED_IN rows hold inventory. The exclusion id
// lets updates skip the reservation's own row (pass 0 on create).
const countOverlappingSQL = `
SELECT COUNT(*) FROM reservations
WHERE room_id = ?
  AND check_in_date < ?
  AND check_out_date > ?
  AND status IN ('CONFIRMED', 'CHECKED_IN')
  AND id <> ?
`

const listCurrentReservationsSQL = selectReservationCols + `
WHERE check_in_date <= ?
  AND check_out_date >= ?
  AND status IN ('CONFIRMED', 'CHECKED_IN')
ORDER BY check_in_date, id
`

const listNoShowCandidatesSQL = selectReservationCols + `
WHERE status = 'CONFIRMED'
  AND check_in_date < ?
ORDER BY id
`

const lockRoomSQL = `SELECT max_occupancy FROM rooms WHERE id = ? FOR UPDATE`

const deleteReservationSQL = `DELETE FROM reservations WHERE id = ?`

// -----------------------------------------------------------------------------
// PAYMENTS
// -----------------------------------------------------------------------------

const insertPaymentSQL = `
INSERT INTO payments
  (reservation_id, invoice_id, amount, method, paid_at, status, transaction_id, notes)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const updatePaymentStatusSQL = `UPDATE payments SET status = ? WHERE id = ?`

const selectPaymentCols = `
SELECT id, reservation_id, invoice_id, amount, method, paid_at, status,
       transaction_id, notes, created_at, updated_at
FROM payments
`

// Canonical day comparison for "today's payments": half-open datetime range
// [day, day+24h) instead of per-row date truncation.
const listPaymentsOnSQL = selectPaymentCols + `
WHERE paid_at >= ? AND paid_at < ?
ORDER BY paid_at, id
`

const revenueOnSQL = `
SELECT COALESCE(SUM(amount), 0) FROM payments
WHERE paid_at >= ? AND paid_at < ?
  AND status <> 'FAILED'
`

const lockReservationSQL = `SELECT id FROM reservations WHERE id = ? FOR UPDATE`

// paid_amount is derived: the sum of PAID payments for the reservation,
// recalculated inside the same transaction as any payment write.
const recalcPaidAmountSQL = `
UPDATE reservations SET paid_amount = (
  SELECT COALESCE(SUM(amount), 0) FROM payments
  WHERE reservation_id = ? AND status = 'PAID'
)
WHERE id = ?
`

const listPaymentsByGuestSQL = selectPaymentCols + `
WHERE reservation_id IN (SELECT id FROM reservations WHERE guest_id = ?)
ORDER BY paid_at DESC, id DESC
`

// -----------------------------------------------------------------------------
// INVOICES
// -----------------------------------------------------------------------------

const insertInvoiceSQL = `
INSERT INTO invoices
  (invoice_number, reservation_id, subtotal, tax, discount, total,
   issue_date, due_date, status, notes)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateInvoiceStatusSQL = `UPDATE invoices SET status = ? WHERE id = ?`

const selectInvoiceCols = `
SELECT id, invoice_number, reservation_id, subtotal, tax, discount, total,
       issue_date, due_date, status, notes, created_at, updated_at
FROM invoices
`

const markOverdueInvoicesSQL = `
UPDATE invoices SET status = 'OVERDUE'
WHERE status IN ('PENDING', 'SENT')
  AND due_date < ?
`

package aggregates

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/leaseledger/leaseledger-backend/internal/domain"
	domainagg "github.com/leaseledger/leaseledger-backend/internal/domain/aggregates"
	"github.com/leaseledger/leaseledger-backend/internal/pkg/dbctx"
)

type memAgreementRepo struct {
	rows   map[uint64]*types.Agreement
	order  []uint64
	nextID uint64

	createErr error
	lockErr   error
	updateErr error
}

func newMemAgreementRepo() *memAgreementRepo {
	return &memAgreementRepo{rows: map[uint64]*types.Agreement{}}
}

func (m *memAgreementRepo) snapshot() map[uint64]types.Agreement {
	snap := make(map[uint64]types.Agreement, len(m.rows))
	for id, a := range m.rows {
		snap[id] = *a
	}
	return snap
}

func (m *memAgreementRepo) restore(snap map[uint64]types.Agreement) {
	m.rows = make(map[uint64]*types.Agreement, len(snap))
	m.order = m.order[:0]
	for id := range snap {
		a := snap[id]
		m.rows[id] = &a
	}
	for id := uint64(1); id <= m.nextID; id++ {
		if _, ok := m.rows[id]; ok {
			m.order = append(m.order, id)
		}
	}
}

func (m *memAgreementRepo) Create(dbc dbctx.Context, agreement *types.Agreement) (*types.Agreement, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	agreement.ID = m.nextID
	copied := *agreement
	m.rows[copied.ID] = &copied
	m.order = append(m.order, copied.ID)
	return agreement, nil
}

func (m *memAgreementRepo) GetByID(dbc dbctx.Context, id uint64) (*types.Agreement, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (m *memAgreementRepo) LockByID(dbc dbctx.Context, id uint64) (*types.Agreement, error) {
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	return m.GetByID(dbc, id)
}

func (m *memAgreementRepo) Exists(dbc dbctx.Context, id uint64) (bool, error) {
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memAgreementRepo) ListByLandlord(dbc dbctx.Context, landlord uuid.UUID) ([]*types.Agreement, error) {
	return m.listBy(func(a *types.Agreement) bool { return a.LandlordID == landlord }), nil
}

func (m *memAgreementRepo) ListByTenant(dbc dbctx.Context, tenant uuid.UUID) ([]*types.Agreement, error) {
	return m.listBy(func(a *types.Agreement) bool { return a.TenantID == tenant }), nil
}

func (m *memAgreementRepo) listBy(match func(*types.Agreement) bool) []*types.Agreement {
	out := []*types.Agreement{}
	for _, id := range m.order {
		if row := m.rows[id]; match(row) {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out
}

func (m *memAgreementRepo) UpdateFields(dbc dbctx.Context, id uint64, updates map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	for col, val := range updates {
		switch col {
		case "is_active":
			row.IsActive = val.(bool)
		case "deposit_paid":
			row.DepositPaid = val.(bool)
		case "last_rent_payment":
			row.LastRentPayment = val.(time.Time)
		case "updated_at":
			row.UpdatedAt = val.(time.Time)
		}
	}
	return nil
}

type transferCall struct {
	To     uuid.UUID
	Amount uint64
}

type memWallet struct {
	transfers []transferCall
	failErr   error
}

func (w *memWallet) Transfer(dbc dbctx.Context, to uuid.UUID, amount uint64) error {
	if w.failErr != nil {
		return w.failErr
	}
	w.transfers = append(w.transfers, transferCall{To: to, Amount: amount})
	return nil
}

type memNotifier struct {
	created    []types.AgreementCreatedEvent
	paid       []types.RentPaidEvent
	terminated []types.AgreementTerminatedEvent
}

func (n *memNotifier) AgreementCreated(ev types.AgreementCreatedEvent) { n.created = append(n.created, ev) }
func (n *memNotifier) RentPaid(ev types.RentPaidEvent)                 { n.paid = append(n.paid, ev) }
func (n *memNotifier) AgreementTerminated(ev types.AgreementTerminatedEvent) {
	n.terminated = append(n.terminated, ev)
}

func (n *memNotifier) total() int {
	return len(n.created) + len(n.paid) + len(n.terminated)
}

// memTxRunner emulates transaction semantics against the in-memory fakes:
// state written during a failed body is rolled back to the pre-body snapshot.
type memTxRunner struct {
	repo   *memAgreementRepo
	wallet *memWallet

	begun      int
	committed  int
	rolledBack int
}

func (r *memTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.begun++
	repoSnap := r.repo.snapshot()
	walletSnap := len(r.wallet.transfers)
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		r.repo.restore(repoSnap)
		r.wallet.transfers = r.wallet.transfers[:walletSnap]
		r.rolledBack++
		return err
	}
	r.committed++
	return nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type engineFixture struct {
	engine   domainagg.AgreementAggregate
	repo     *memAgreementRepo
	wallet   *memWallet
	notifier *memNotifier
	runner   *memTxRunner
	clock    *testClock
	landlord uuid.UUID
	tenant   uuid.UUID
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	repo := newMemAgreementRepo()
	wallet := &memWallet{}
	notifier := &memNotifier{}
	runner := &memTxRunner{repo: repo, wallet: wallet}
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	engine := NewAgreementAggregate(AgreementAggregateDeps{
		Base:       BaseDeps{Runner: runner, Now: clock.Now},
		Agreements: repo,
		Wallet:     wallet,
		Notifier:   notifier,
	})
	return &engineFixture{
		engine:   engine,
		repo:     repo,
		wallet:   wallet,
		notifier: notifier,
		runner:   runner,
		clock:    clock,
		landlord: uuid.New(),
		tenant:   uuid.New(),
	}
}

func (f *engineFixture) create(t *testing.T, rent, deposit uint64, days int) *types.Agreement {
	t.Helper()
	res, err := f.engine.CreateAgreement(context.Background(), domainagg.CreateAgreementInput{
		Landlord:        f.landlord,
		Tenant:          f.tenant,
		RentAmount:      rent,
		SecurityDeposit: deposit,
		DurationDays:    days,
	})
	if err != nil {
		t.Fatalf("CreateAgreement failed: %v", err)
	}
	return res.Agreement
}

func wantCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	if got := domainagg.CodeOf(err); got != code {
		t.Fatalf("expected error code %q, got %q (%v)", code, got, err)
	}
}

func TestCreateAgreementAssignsSequentialIDs(t *testing.T) {
	f := newEngineFixture(t)

	first := f.create(t, 100, 50, 365)
	if first.ID != 1 {
		t.Fatalf("expected first agreement id 1, got %d", first.ID)
	}
	second := f.create(t, 200, 80, 30)
	if second.ID != 2 {
		t.Fatalf("expected second agreement id 2, got %d", second.ID)
	}

	if !first.IsActive {
		t.Fatalf("new agreement should be active")
	}
	if first.DepositPaid {
		t.Fatalf("new agreement should not have the deposit collected")
	}
	if !first.LastRentPayment.IsZero() {
		t.Fatalf("new agreement should have no rent payment recorded, got %v", first.LastRentPayment)
	}
	wantEnd := f.clock.now.AddDate(0, 0, 365)
	if !first.EndDate.Equal(wantEnd) {
		t.Fatalf("expected end date %v, got %v", wantEnd, first.EndDate)
	}

	if len(f.notifier.created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(f.notifier.created))
	}
	ev := f.notifier.created[0]
	if ev.AgreementID != 1 || ev.Landlord != f.landlord || ev.Tenant != f.tenant || ev.RentAmount != 100 || ev.SecurityDeposit != 50 {
		t.Fatalf("unexpected created event: %+v", ev)
	}
}

func TestCreateAgreementRejectsBadInputs(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   domainagg.CreateAgreementInput
		code domainagg.ErrorCode
	}{
		{
			name: "missing tenant",
			in:   domainagg.CreateAgreementInput{Landlord: f.landlord, RentAmount: 100, SecurityDeposit: 50, DurationDays: 30},
			code: domainagg.CodeInvalidTenant,
		},
		{
			name: "self dealing",
			in:   domainagg.CreateAgreementInput{Landlord: f.landlord, Tenant: f.landlord, RentAmount: 100, SecurityDeposit: 50, DurationDays: 30},
			code: domainagg.CodeInvalidTenant,
		},
		{
			name: "zero rent",
			in:   domainagg.CreateAgreementInput{Landlord: f.landlord, Tenant: f.tenant, SecurityDeposit: 50, DurationDays: 30},
			code: domainagg.CodeInvalidTerms,
		},
		{
			name: "zero deposit",
			in:   domainagg.CreateAgreementInput{Landlord: f.landlord, Tenant: f.tenant, RentAmount: 100, DurationDays: 30},
			code: domainagg.CodeInvalidTerms,
		},
		{
			name: "zero duration",
			in:   domainagg.CreateAgreementInput{Landlord: f.landlord, Tenant: f.tenant, RentAmount: 100, SecurityDeposit: 50},
			code: domainagg.CodeInvalidTerms,
		},
		{
			name: "rent plus deposit overflows",
			in:   domainagg.CreateAgreementInput{Landlord: f.landlord, Tenant: f.tenant, RentAmount: math.MaxUint64, SecurityDeposit: 1, DurationDays: 30},
			code: domainagg.CodeInvalidTerms,
		},
		{
			name: "missing landlord",
			in:   domainagg.CreateAgreementInput{Tenant: f.tenant, RentAmount: 100, SecurityDeposit: 50, DurationDays: 30},
			code: domainagg.CodeValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.CreateAgreement(ctx, tc.in)
			wantCode(t, err, tc.code)
		})
	}

	if len(f.repo.rows) != 0 {
		t.Fatalf("rejected creates must leave no rows, got %d", len(f.repo.rows))
	}
	if f.notifier.total() != 0 {
		t.Fatalf("rejected creates must emit no events, got %d", f.notifier.total())
	}
	if f.runner.begun != 0 {
		t.Fatalf("input validation must run before any transaction, got %d begun", f.runner.begun)
	}
}

func TestPayRentFirstPaymentCollectsDeposit(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)

	res, err := f.engine.PayRent(context.Background(), domainagg.PayRentInput{
		Caller:      f.tenant,
		AgreementID: a.ID,
		Amount:      150,
	})
	if err != nil {
		t.Fatalf("PayRent failed: %v", err)
	}
	if !res.DepositCollected {
		t.Fatalf("first payment should collect the deposit")
	}
	if !res.PaidAt.Equal(f.clock.now) {
		t.Fatalf("expected PaidAt %v, got %v", f.clock.now, res.PaidAt)
	}

	if len(f.wallet.transfers) != 1 {
		t.Fatalf("expected exactly one transfer, got %d", len(f.wallet.transfers))
	}
	tr := f.wallet.transfers[0]
	if tr.To != f.landlord || tr.Amount != 100 {
		t.Fatalf("expected 100 forwarded to landlord, got %d to %v", tr.Amount, tr.To)
	}

	stored := f.repo.rows[a.ID]
	if !stored.DepositPaid {
		t.Fatalf("deposit should be recorded as collected")
	}
	if !stored.LastRentPayment.Equal(f.clock.now) {
		t.Fatalf("expected last rent payment %v, got %v", f.clock.now, stored.LastRentPayment)
	}

	if len(f.notifier.paid) != 1 {
		t.Fatalf("expected one rent paid event, got %d", len(f.notifier.paid))
	}
	ev := f.notifier.paid[0]
	if ev.AgreementID != a.ID || ev.Tenant != f.tenant || ev.AmountPaid != 150 || !ev.Timestamp.Equal(f.clock.now) {
		t.Fatalf("unexpected rent paid event: %+v", ev)
	}
}

func TestPayRentSubsequentPaymentIsRentOnly(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)

	if _, err := f.engine.PayRent(context.Background(), domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150}); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}

	f.clock.advance(10 * 24 * time.Hour)
	res, err := f.engine.PayRent(context.Background(), domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 100})
	if err != nil {
		t.Fatalf("second payment failed: %v", err)
	}
	if res.DepositCollected {
		t.Fatalf("deposit must only be collected once")
	}

	if len(f.wallet.transfers) != 2 {
		t.Fatalf("expected two transfers, got %d", len(f.wallet.transfers))
	}
	if tr := f.wallet.transfers[1]; tr.To != f.landlord || tr.Amount != 100 {
		t.Fatalf("expected 100 forwarded to landlord, got %d to %v", tr.Amount, tr.To)
	}
	if !f.repo.rows[a.ID].LastRentPayment.Equal(f.clock.now) {
		t.Fatalf("second payment should refresh last rent payment")
	}
}

func TestPayRentPreconditions(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 30)
	outsider := uuid.New()

	cases := []struct {
		name  string
		setup func()
		in    domainagg.PayRentInput
		code  domainagg.ErrorCode
	}{
		{
			name: "unknown agreement",
			in:   domainagg.PayRentInput{Caller: f.tenant, AgreementID: 99, Amount: 150},
			code: domainagg.CodeNotFound,
		},
		{
			name: "landlord cannot pay",
			in:   domainagg.PayRentInput{Caller: f.landlord, AgreementID: a.ID, Amount: 150},
			code: domainagg.CodeUnauthorized,
		},
		{
			name: "outsider cannot pay",
			in:   domainagg.PayRentInput{Caller: outsider, AgreementID: a.ID, Amount: 150},
			code: domainagg.CodeUnauthorized,
		},
		{
			name: "underpayment",
			in:   domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 100},
			code: domainagg.CodeIncorrectAmount,
		},
		{
			name: "overpayment",
			in:   domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 151},
			code: domainagg.CodeIncorrectAmount,
		},
		{
			name:  "expired",
			setup: func() { f.clock.advance(31 * 24 * time.Hour) },
			in:    domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150},
			code:  domainagg.CodeAgreementExpired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				tc.setup()
			}
			_, err := f.engine.PayRent(context.Background(), tc.in)
			wantCode(t, err, tc.code)
		})
	}

	if len(f.wallet.transfers) != 0 {
		t.Fatalf("rejected payments must move no value, got %d transfers", len(f.wallet.transfers))
	}
	stored := f.repo.rows[a.ID]
	if stored.DepositPaid || !stored.LastRentPayment.IsZero() {
		t.Fatalf("rejected payments must not mutate the agreement: %+v", stored)
	}
	if len(f.notifier.paid) != 0 {
		t.Fatalf("rejected payments must emit no events")
	}
}

func TestPayRentOnTerminatedAgreement(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)
	if _, err := f.engine.TerminateAgreement(context.Background(), domainagg.TerminateAgreementInput{Caller: f.landlord, AgreementID: a.ID}); err != nil {
		t.Fatalf("terminate failed: %v", err)
	}

	_, err := f.engine.PayRent(context.Background(), domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150})
	wantCode(t, err, domainagg.CodeAgreementInactive)
}

func TestPayRentTransferFailureRollsBack(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)
	f.wallet.failErr = errors.New("escrow account unavailable")

	_, err := f.engine.PayRent(context.Background(), domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150})
	wantCode(t, err, domainagg.CodeTransferFailed)

	stored := f.repo.rows[a.ID]
	if stored.DepositPaid || !stored.LastRentPayment.IsZero() {
		t.Fatalf("failed transfer must roll back the payment mutation: %+v", stored)
	}
	if len(f.notifier.paid) != 0 {
		t.Fatalf("failed payment must emit no event")
	}
	if f.runner.rolledBack != 1 {
		t.Fatalf("expected one rollback, got %d", f.runner.rolledBack)
	}
}

func TestTerminateRefundsDepositToTenant(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)
	if _, err := f.engine.PayRent(context.Background(), domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	res, err := f.engine.TerminateAgreement(context.Background(), domainagg.TerminateAgreementInput{Caller: f.tenant, AgreementID: a.ID})
	if err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	if !res.DepositRefunded {
		t.Fatalf("deposit should be refunded once collected")
	}

	if len(f.wallet.transfers) != 2 {
		t.Fatalf("expected rent transfer plus refund, got %d", len(f.wallet.transfers))
	}
	refund := f.wallet.transfers[1]
	if refund.To != f.tenant || refund.Amount != 50 {
		t.Fatalf("expected full deposit 50 refunded to tenant, got %d to %v", refund.Amount, refund.To)
	}

	if f.repo.rows[a.ID].IsActive {
		t.Fatalf("terminated agreement should be inactive")
	}
	if len(f.notifier.terminated) != 1 {
		t.Fatalf("expected one terminated event")
	}
	ev := f.notifier.terminated[0]
	if ev.AgreementID != a.ID || ev.TerminatedBy != f.tenant {
		t.Fatalf("unexpected terminated event: %+v", ev)
	}
}

func TestTerminateByLandlordBeforeDeposit(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)

	res, err := f.engine.TerminateAgreement(context.Background(), domainagg.TerminateAgreementInput{Caller: f.landlord, AgreementID: a.ID})
	if err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	if res.DepositRefunded {
		t.Fatalf("no refund is due before the deposit is collected")
	}
	if len(f.wallet.transfers) != 0 {
		t.Fatalf("expected no transfers, got %d", len(f.wallet.transfers))
	}
	if f.repo.rows[a.ID].IsActive {
		t.Fatalf("terminated agreement should be inactive")
	}
	if f.notifier.terminated[0].TerminatedBy != f.landlord {
		t.Fatalf("event should carry the terminating party")
	}
}

func TestTerminatePreconditions(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)
	ctx := context.Background()

	_, err := f.engine.TerminateAgreement(ctx, domainagg.TerminateAgreementInput{Caller: uuid.New(), AgreementID: a.ID})
	wantCode(t, err, domainagg.CodeUnauthorized)

	_, err = f.engine.TerminateAgreement(ctx, domainagg.TerminateAgreementInput{Caller: f.tenant, AgreementID: 42})
	wantCode(t, err, domainagg.CodeNotFound)

	if _, err := f.engine.TerminateAgreement(ctx, domainagg.TerminateAgreementInput{Caller: f.tenant, AgreementID: a.ID}); err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	_, err = f.engine.TerminateAgreement(ctx, domainagg.TerminateAgreementInput{Caller: f.landlord, AgreementID: a.ID})
	wantCode(t, err, domainagg.CodeAgreementInactive)

	if len(f.notifier.terminated) != 1 {
		t.Fatalf("expected exactly one terminated event, got %d", len(f.notifier.terminated))
	}
}

func TestTerminateRefundFailureRollsBack(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 365)
	if _, err := f.engine.PayRent(context.Background(), domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	f.wallet.failErr = errors.New("escrow account unavailable")

	_, err := f.engine.TerminateAgreement(context.Background(), domainagg.TerminateAgreementInput{Caller: f.tenant, AgreementID: a.ID})
	wantCode(t, err, domainagg.CodeTransferFailed)

	if !f.repo.rows[a.ID].IsActive {
		t.Fatalf("failed refund must leave the agreement active")
	}
	if len(f.notifier.terminated) != 0 {
		t.Fatalf("failed termination must emit no event")
	}
}

func TestIsRentOverdue(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	a := f.create(t, 100, 50, 3650)

	// Never paid: the zero-value payment timestamp is far in the past, so a
	// fresh agreement reports overdue until the first payment lands.
	overdue, err := f.engine.IsRentOverdue(ctx, a.ID)
	if err != nil {
		t.Fatalf("IsRentOverdue failed: %v", err)
	}
	if !overdue {
		t.Fatalf("never-paid active agreement should report overdue")
	}

	if _, err := f.engine.PayRent(ctx, domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if overdue, _ = f.engine.IsRentOverdue(ctx, a.ID); overdue {
		t.Fatalf("freshly paid agreement should not be overdue")
	}

	f.clock.advance(OverduePeriod)
	if overdue, _ = f.engine.IsRentOverdue(ctx, a.ID); overdue {
		t.Fatalf("exactly the grace period since payment is not yet overdue")
	}

	f.clock.advance(time.Second)
	if overdue, _ = f.engine.IsRentOverdue(ctx, a.ID); !overdue {
		t.Fatalf("past the grace period the agreement should be overdue")
	}

	if _, err := f.engine.TerminateAgreement(ctx, domainagg.TerminateAgreementInput{Caller: f.landlord, AgreementID: a.ID}); err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	if overdue, _ = f.engine.IsRentOverdue(ctx, a.ID); overdue {
		t.Fatalf("terminated agreement is never overdue")
	}

	_, err = f.engine.IsRentOverdue(ctx, 99)
	wantCode(t, err, domainagg.CodeNotFound)
}

func TestGetAgreement(t *testing.T) {
	f := newEngineFixture(t)
	a := f.create(t, 100, 50, 30)

	got, err := f.engine.GetAgreement(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetAgreement failed: %v", err)
	}
	if got.ID != a.ID || got.RentAmount != 100 || got.SecurityDeposit != 50 {
		t.Fatalf("unexpected agreement: %+v", got)
	}

	_, err = f.engine.GetAgreement(context.Background(), 404)
	wantCode(t, err, domainagg.CodeNotFound)
}

func TestListAgreementsByParty(t *testing.T) {
	f := newEngineFixture(t)
	otherTenant := uuid.New()

	first := f.create(t, 100, 50, 30)
	res, err := f.engine.CreateAgreement(context.Background(), domainagg.CreateAgreementInput{
		Landlord:        f.landlord,
		Tenant:          otherTenant,
		RentAmount:      300,
		SecurityDeposit: 90,
		DurationDays:    60,
	})
	if err != nil {
		t.Fatalf("CreateAgreement failed: %v", err)
	}
	second := res.Agreement

	byLandlord, err := f.engine.ListLandlordAgreements(context.Background(), f.landlord)
	if err != nil {
		t.Fatalf("ListLandlordAgreements failed: %v", err)
	}
	if len(byLandlord) != 2 || byLandlord[0].ID != first.ID || byLandlord[1].ID != second.ID {
		t.Fatalf("expected landlord agreements in creation order, got %+v", byLandlord)
	}

	byTenant, err := f.engine.ListTenantAgreements(context.Background(), otherTenant)
	if err != nil {
		t.Fatalf("ListTenantAgreements failed: %v", err)
	}
	if len(byTenant) != 1 || byTenant[0].ID != second.ID {
		t.Fatalf("expected one tenant agreement, got %+v", byTenant)
	}

	empty, err := f.engine.ListTenantAgreements(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListTenantAgreements failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list for unknown party, got %d", len(empty))
	}
}

func TestFullLifecycle(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	a := f.create(t, 100, 50, 365)
	if a.ID != 1 {
		t.Fatalf("expected id 1, got %d", a.ID)
	}

	if _, err := f.engine.PayRent(ctx, domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 150}); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	f.clock.advance(29 * 24 * time.Hour)
	if _, err := f.engine.PayRent(ctx, domainagg.PayRentInput{Caller: f.tenant, AgreementID: a.ID, Amount: 100}); err != nil {
		t.Fatalf("second payment failed: %v", err)
	}

	res, err := f.engine.TerminateAgreement(ctx, domainagg.TerminateAgreementInput{Caller: f.landlord, AgreementID: a.ID})
	if err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	if !res.DepositRefunded {
		t.Fatalf("deposit should be refunded")
	}

	// Landlord received rent twice, tenant got the deposit back; the escrow
	// held exactly the deposit in between.
	want := []transferCall{
		{To: f.landlord, Amount: 100},
		{To: f.landlord, Amount: 100},
		{To: f.tenant, Amount: 50},
	}
	if len(f.wallet.transfers) != len(want) {
		t.Fatalf("expected %d transfers, got %d", len(want), len(f.wallet.transfers))
	}
	for i, tr := range f.wallet.transfers {
		if tr != want[i] {
			t.Fatalf("transfer %d: expected %+v, got %+v", i, want[i], tr)
		}
	}

	if f.notifier.total() != 4 {
		t.Fatalf("expected 4 events across the lifecycle, got %d", f.notifier.total())
	}
	if f.runner.committed != 4 || f.runner.rolledBack != 0 {
		t.Fatalf("expected 4 committed transactions and no rollbacks, got %d/%d", f.runner.committed, f.runner.rolledBack)
	}
}

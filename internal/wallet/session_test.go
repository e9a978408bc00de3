package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x000000000000000000000000000000000000dEaD"

type scriptedProvider struct {
	accounts    []string
	accountsErr error
	chainID     string
	chainErr    error
	txHash      common.Hash
	sendErr     error
	events      chan Event
}

func (p *scriptedProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	return p.accounts, p.accountsErr
}

func (p *scriptedProvider) ChainID(ctx context.Context) (string, error) {
	return p.chainID, p.chainErr
}

func (p *scriptedProvider) SendTransaction(ctx context.Context, to common.Address, value *big.Int) (common.Hash, error) {
	if p.sendErr != nil {
		return common.Hash{}, p.sendErr
	}
	return p.txHash, nil
}

func (p *scriptedProvider) Events() <-chan Event {
	return p.events
}

func TestConnectPopulatesSession(t *testing.T) {
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1"}, nil)

	require.NoError(t, session.Connect(context.Background()))

	assert.True(t, session.IsConnected())
	assert.Equal(t, testAddress, session.Address())
	assert.Equal(t, "1", session.ChainID())
	assert.Empty(t, session.LastError())
}

func TestConnectNoProvider(t *testing.T) {
	session := NewSession(nil, nil)

	err := session.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoProvider)

	assert.False(t, session.IsConnected())
	assert.Equal(t, ErrNoProvider.Error(), session.LastError())
}

func TestConnectZeroAccounts(t *testing.T) {
	session := NewSession(&scriptedProvider{accounts: nil, chainID: "1"}, nil)

	err := session.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoAccount)

	assert.False(t, session.IsConnected())
	assert.Empty(t, session.Address())
	assert.Equal(t, ErrNoAccount.Error(), session.LastError())
}

func TestConnectUserRejection(t *testing.T) {
	rejected := errors.New("user rejected the request")
	session := NewSession(&scriptedProvider{accountsErr: rejected}, nil)

	err := session.Connect(context.Background())
	require.Error(t, err)

	assert.False(t, session.IsConnected())
	assert.Equal(t, rejected.Error(), session.LastError())
}

func TestDisconnectResetsUnconditionally(t *testing.T) {
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1"}, nil)
	require.NoError(t, session.Connect(context.Background()))

	session.Disconnect()

	assert.False(t, session.IsConnected())
	assert.Empty(t, session.Address())
	assert.Empty(t, session.ChainID())
}

func TestZeroAccountsEventForcesDisconnect(t *testing.T) {
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1"}, nil)
	require.NoError(t, session.Connect(context.Background()))

	session.handleEvent(Event{Type: EventAccountsChanged, Accounts: nil})

	assert.False(t, session.IsConnected())
	assert.Empty(t, session.Address())
}

func TestAccountSwitchAdoptsNewAddress(t *testing.T) {
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1"}, nil)
	require.NoError(t, session.Connect(context.Background()))

	other := "0x0000000000000000000000000000000000000001"
	session.handleEvent(Event{Type: EventAccountsChanged, Accounts: []string{other}})

	assert.True(t, session.IsConnected())
	assert.Equal(t, common.HexToAddress(other).Hex(), session.Address())
}

func TestChainChangeResetsAndReloads(t *testing.T) {
	reloaded := false
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1"}, func() {
		reloaded = true
	})
	require.NoError(t, session.Connect(context.Background()))

	session.handleEvent(Event{Type: EventChainChanged, ChainID: "137"})

	assert.True(t, reloaded)
	assert.False(t, session.IsConnected())
}

func TestWatchConsumesProviderEvents(t *testing.T) {
	events := make(chan Event, 1)
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1", events: events}, nil)
	require.NoError(t, session.Connect(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.Watch(ctx)

	events <- Event{Type: EventAccountsChanged, Accounts: nil}

	require.Eventually(t, func() bool {
		return !session.IsConnected()
	}, time.Second, 10*time.Millisecond)
}

func TestSendRequiresConnection(t *testing.T) {
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1"}, nil)

	_, err := session.Send(context.Background(), testAddress, big.NewInt(1))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSendValidatesRecipient(t *testing.T) {
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1"}, nil)
	require.NoError(t, session.Connect(context.Background()))

	_, err := session.Send(context.Background(), "not-an-address", big.NewInt(1))
	assert.Error(t, err)
}

func TestSendReturnsTransactionHash(t *testing.T) {
	hash := common.HexToHash("0xfeed")
	session := NewSession(&scriptedProvider{accounts: []string{testAddress}, chainID: "1", txHash: hash}, nil)
	require.NoError(t, session.Connect(context.Background()))

	got, err := session.Send(context.Background(), testAddress, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, hash.Hex(), got)
}

func TestSendSurfacesRejection(t *testing.T) {
	session := NewSession(&scriptedProvider{
		accounts: []string{testAddress},
		chainID:  "1",
		sendErr:  errors.New("user dismissed the signing prompt"),
	}, nil)
	require.NoError(t, session.Connect(context.Background()))

	_, err := session.Send(context.Background(), testAddress, big.NewInt(1))
	assert.Error(t, err)
}

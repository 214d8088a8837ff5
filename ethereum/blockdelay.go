package ethereum

// BlockDelay returns the number of confirmations the watcher holds back from
// the EVM chain's head before scanning, to survive reorgs: 6 for
// proof-of-work networks, 0 for networks with fast/deterministic finality,
// and 6 (the conservative default) for any network id this table doesn't
// recognize.
func BlockDelay(netID uint64) uint64 {
	switch netID {
	case 1, 3, 7: // mainnet, classic, Ropsten/Mordor — proof-of-work
		return 6
	case 4, 5, 6, 15, 2018: // Rinkeby, Goerli, Kotti, dev, private peggy test
		return 0
	default:
		return 6
	}
}

package domain

const (
	// ZeroAddress is the EVM zero address used to signal mint/burn counterparties
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

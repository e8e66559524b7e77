package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// TRANSFER_EVENT_SIGNATURE is the canonical ERC20 Transfer event signature
	TRANSFER_EVENT_SIGNATURE = "Transfer(address,address,uint256)"

	// DEFAULT_TOKEN_DECIMALS is used when a token does not answer decimals()
	DEFAULT_TOKEN_DECIMALS uint8 = 18

	// UNKNOWN_LOCATION is the placeholder location for actors missing from the registry
	UNKNOWN_LOCATION = "Unknown"
)

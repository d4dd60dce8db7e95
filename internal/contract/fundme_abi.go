package contract

// DefaultName is the registry name the client looks up for its deployment.
const DefaultName = "FundMe"

// FundMe method names.
const (
	MethodFund     = "fund"
	MethodWithdraw = "withdraw"
)

func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "fundme",
		Name:        "FundMe",
		Description: "Crowdfunding contract with a USD minimum enforced through a price feed",
		ABI:         fundMeABI,
	})
}

var fundMeABI = []ABIEntry{
	{
		Type:            "constructor",
		StateMutability: "nonpayable",
		Inputs:          []ABIParam{{Name: "priceFeed", Type: "address", InternalType: "address"}},
	},
	{Type: "error", Name: "FundMe__NotOwner"},
	{Type: "fallback", StateMutability: "payable"},
	{Type: "receive", StateMutability: "payable"},
	{
		Type: "function", Name: "MINIMUM_USD", StateMutability: "view",
		Outputs: []ABIParam{{Name: "", Type: "uint256", InternalType: "uint256"}},
	},
	{Type: "function", Name: "cheaperWithdraw", StateMutability: "nonpayable"},
	{Type: "function", Name: MethodFund, StateMutability: "payable"},
	{
		Type: "function", Name: "getAddressToAmountFunded", StateMutability: "view",
		Inputs:  []ABIParam{{Name: "fundingAddress", Type: "address", InternalType: "address"}},
		Outputs: []ABIParam{{Name: "", Type: "uint256", InternalType: "uint256"}},
	},
	{
		Type: "function", Name: "getFunder", StateMutability: "view",
		Inputs:  []ABIParam{{Name: "index", Type: "uint256", InternalType: "uint256"}},
		Outputs: []ABIParam{{Name: "", Type: "address", InternalType: "address"}},
	},
	{
		Type: "function", Name: "getOwner", StateMutability: "view",
		Outputs: []ABIParam{{Name: "", Type: "address", InternalType: "address"}},
	},
	{
		Type: "function", Name: "getPriceFeed", StateMutability: "view",
		Outputs: []ABIParam{{Name: "", Type: "address", InternalType: "contract AggregatorV3Interface"}},
	},
	{
		Type: "function", Name: "getVersion", StateMutability: "view",
		Outputs: []ABIParam{{Name: "", Type: "uint256", InternalType: "uint256"}},
	},
	{Type: "function", Name: MethodWithdraw, StateMutability: "nonpayable"},
}

package deriv

// Transaction is one raw profit-table row exactly as the Deriv API reports
// it. The normalizer owns all derivation; nothing here is cleaned up.
type Transaction struct {
	TransactionID int64   `json:"transaction_id"`
	ContractID    int64   `json:"contract_id"`
	BuyPrice      float64 `json:"buy_price"`
	SellPrice     float64 `json:"sell_price"`
	PurchaseTime  int64   `json:"purchase_time"`
	SellTime      int64   `json:"sell_time"`
	Shortcode     string  `json:"shortcode"`
	Longcode      string  `json:"longcode"`
}

// AccountBalance is the account snapshot returned alongside the history.
type AccountBalance struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// History is the upstream snapshot one session run derives from:
// the most recent transactions (descending by time) plus the balance.
type History struct {
	Transactions []Transaction
	Balance      *AccountBalance
}

// wire envelope shared by every Deriv response frame.
type envelope struct {
	MsgType     string             `json:"msg_type"`
	ReqID       int64              `json:"req_id"`
	Error       *apiError          `json:"error"`
	ProfitTable *profitTableResult `json:"profit_table"`
	Balance     *AccountBalance    `json:"balance"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type profitTableResult struct {
	Count        int           `json:"count"`
	Transactions []Transaction `json:"transactions"`
}

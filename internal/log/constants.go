package log

const (
	KeyAppName            = "app"
	KeyTag                = "tag"
	KeyProcess            = "process"
	KeyConfig             = "config"
	KeyRequestID          = "requestId"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyUserID             = "userId"
	KeyEmail              = "email"
	KeyToken              = "token"
	KeyBarcode            = "barcode"
	KeyProductID          = "productId"
	KeyProductName        = "productName"
	KeyShopName           = "shopName"
	KeyQuantity           = "quantity"
	KeyCartItem           = "cartItem"
	KeyCartItems          = "cartItems"
	KeyBookmarks          = "bookmarks"
	KeyReceiptID          = "receiptId"
	KeyReceipt            = "receipt"
	KeyReceipts           = "receipts"
	KeyTotalSum           = "totalSum"
	KeySessionID          = "sessionId"
	KeyCacheKey           = "cacheKey"
	KeyDbURL              = "dbUrl"
	KeyCheckoutState      = "checkoutState"
	KeyPaymentSessionID   = "paymentSessionId"
	KeyRequestProcessedAt = "requestProcessedAt"
)

package transfer

type TwitterTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

type TwitterUserResponse struct {
	Data TwitterUser `json:"data"`
}

type TwitterUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type TwitterPublicMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

type TwitterTweet struct {
	ID             string               `json:"id"`
	Text           string               `json:"text"`
	CreatedAt      string               `json:"created_at"`
	ConversationID string               `json:"conversation_id"`
	AuthorID       string               `json:"author_id"`
	Lang           string               `json:"lang"`
	PublicMetrics  TwitterPublicMetrics `json:"public_metrics"`
}

type TwitterTimelineMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

type TwitterTimelineResponse struct {
	Data   []TwitterTweet      `json:"data"`
	Meta   TwitterTimelineMeta `json:"meta"`
	Errors []TwitterAPIError   `json:"errors"`
}

type TwitterAPIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

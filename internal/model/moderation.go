package model

type ModerateMessageRequest struct {
	MessageID string         `json:"message_id" validate:"required"`
	UserID    string         `json:"user_id" validate:"required"`
	ChannelID string         `json:"channel_id" validate:"required"`
	Content   string         `json:"content" validate:"required"`
	Metadata  map[string]any `json:"metadata"`
}

type AnalyzeTextRequest struct {
	Text     string  `json:"text" validate:"required"`
	Language *string `json:"language"`
}

type AddWordRequest struct {
	Word     string  `json:"word" validate:"required"`
	Language string  `json:"language" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Severity string  `json:"severity" validate:"required"`
	IsRegex  bool    `json:"is_regex"`
	Notes    *string `json:"notes"`
}

type UnbanUserRequest struct {
	ChannelID    string  `json:"channel_id" validate:"required"`
	Reason       *string `json:"reason"`
	ResetStrikes bool    `json:"reset_strikes"`
}

// SuccessResponse is the moderation service's generic acknowledgement.
type SuccessResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type ModerateMessageResponse struct {
	IsApproved    bool           `json:"is_approved"`
	Action        string         `json:"action" validate:"required"`
	Severity      string         `json:"severity"`
	ToxicityScore float64        `json:"toxicity_score"`
	StrikeCount   int            `json:"strike_count"`
	Message       string         `json:"message"`
	DetectedWords []string       `json:"detected_words"`
	Language      *string        `json:"language"`
	BanInfo       map[string]any `json:"ban_info"`
}

type AnalyzeTextResponse struct {
	IsToxic        bool               `json:"is_toxic"`
	ToxicityScore  float64            `json:"toxicity_score"`
	Severity       string             `json:"severity"`
	Language       string             `json:"language"`
	DetectedWords  []string           `json:"detected_words"`
	Categories     []string           `json:"categories"`
	DetoxifyScores map[string]float64 `json:"detoxify_scores"`
}

type ModerationStatus struct {
	UserID         string  `json:"user_id" validate:"required"`
	ChannelID      string  `json:"channel_id" validate:"required"`
	StrikeCount    int     `json:"strike_count"`
	IsBanned       bool    `json:"is_banned"`
	BanType        *string `json:"ban_type"`
	BanExpiresAt   *string `json:"ban_expires_at"`
	StrikesResetAt *string `json:"strikes_reset_at"`
	LastViolation  *string `json:"last_violation"`
}

type BlacklistWord struct {
	ID        string  `json:"id" validate:"required"`
	Word      string  `json:"word" validate:"required"`
	Language  string  `json:"language"`
	Category  string  `json:"category"`
	Severity  string  `json:"severity"`
	IsActive  bool    `json:"is_active"`
	IsRegex   bool    `json:"is_regex"`
	AddedBy   *string `json:"added_by"`
	AddedAt   string  `json:"added_at"`
	UpdatedAt string  `json:"updated_at"`
	Notes     *string `json:"notes"`
}

type BlacklistWords struct {
	Total int             `json:"total"`
	Words []BlacklistWord `json:"words" validate:"dive"`
}

type BlacklistStats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Inactive   int            `json:"inactive"`
	ByLanguage map[string]int `json:"by_language"`
	ByCategory map[string]int `json:"by_category"`
	BySeverity map[string]int `json:"by_severity"`
}

type BannedUser struct {
	UserID          string  `json:"user_id" validate:"required"`
	ChannelID       string  `json:"channel_id"`
	BanType         string  `json:"ban_type"`
	BannedAt        string  `json:"banned_at"`
	BannedUntil     *string `json:"banned_until"`
	Reason          string  `json:"reason"`
	TotalViolations int     `json:"total_violations"`
	StrikeCount     int     `json:"strike_count"`
}

type BannedUsers struct {
	Total       int          `json:"total"`
	BannedUsers []BannedUser `json:"banned_users" validate:"dive"`
}

type Violation struct {
	ID                string   `json:"id"`
	MessageID         string   `json:"message_id"`
	DetectedWords     []string `json:"detected_words"`
	ToxicityScore     float64  `json:"toxicity_score"`
	Severity          string   `json:"severity"`
	ActionTaken       string   `json:"action_taken"`
	StrikeCountAtTime int      `json:"strike_count_at_time"`
	Timestamp         string   `json:"timestamp"`
}

type UserViolations struct {
	UserID          string      `json:"user_id" validate:"required"`
	ChannelID       string      `json:"channel_id"`
	TotalViolations int         `json:"total_violations"`
	CurrentStrikes  int         `json:"current_strikes"`
	IsBanned        bool        `json:"is_banned"`
	Violations      []Violation `json:"violations"`
}

type UserModerationStatus struct {
	UserID           string         `json:"user_id" validate:"required"`
	ChannelID        string         `json:"channel_id"`
	StrikeCount      int            `json:"strike_count"`
	IsBanned         bool           `json:"is_banned"`
	BanInfo          map[string]any `json:"ban_info"`
	ViolationSummary map[string]any `json:"violation_summary"`
}

type ChannelModerationStats struct {
	ChannelID             string  `json:"channel_id" validate:"required"`
	TotalViolations       int     `json:"total_violations"`
	TotalUsersWithStrikes int     `json:"total_users_with_strikes"`
	BannedUsers           int     `json:"banned_users"`
	TempBanned            int     `json:"temp_banned"`
	PermBanned            int     `json:"perm_banned"`
	AvgStrikes            float64 `json:"avg_strikes"`
}

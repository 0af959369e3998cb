package quiz

// RecentRemoteLimit bounds the ring of recently seen remote question IDs.
const RecentRemoteLimit = 20

// History is the quiz memory carried across battles: every prompt the
// player has been shown, plus a bounded ring of recent remote question
// IDs used to bias the remote generator away from its latest picks.
// It is persisted as part of the campaign state.
type History struct {
	AskedPrompts    []string `json:"asked_prompts,omitempty"`
	RecentRemoteIDs []string `json:"recent_remote_ids,omitempty"`
	LastPrompt      string   `json:"last_prompt,omitempty"`
}

// NewHistory returns an empty quiz history.
func NewHistory() *History {
	return &History{}
}

// HasAsked reports whether the prompt has been shown before.
func (h *History) HasAsked(prompt string) bool {
	for _, p := range h.AskedPrompts {
		if p == prompt {
			return true
		}
	}
	return false
}

// RecordPrompt marks a prompt as asked. Duplicate records are ignored,
// but the prompt still becomes the most recently asked one.
func (h *History) RecordPrompt(prompt string) {
	if prompt == "" {
		return
	}
	if !h.HasAsked(prompt) {
		h.AskedPrompts = append(h.AskedPrompts, prompt)
	}
	h.LastPrompt = prompt
}

// Forget removes the given prompts from the asked history. Used when an
// opponent's static pool has been exhausted and selection starts over.
func (h *History) Forget(prompts []string) {
	if len(prompts) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(prompts))
	for _, p := range prompts {
		drop[p] = struct{}{}
	}
	kept := h.AskedPrompts[:0]
	for _, p := range h.AskedPrompts {
		if _, ok := drop[p]; !ok {
			kept = append(kept, p)
		}
	}
	h.AskedPrompts = kept
}

// RecordRemoteID appends a remote question ID to the recent ring,
// evicting the oldest entries beyond RecentRemoteLimit.
func (h *History) RecordRemoteID(id string) {
	if id == "" {
		return
	}
	h.RecentRemoteIDs = append(h.RecentRemoteIDs, id)
	if n := len(h.RecentRemoteIDs) - RecentRemoteLimit; n > 0 {
		h.RecentRemoteIDs = h.RecentRemoteIDs[n:]
	}
}

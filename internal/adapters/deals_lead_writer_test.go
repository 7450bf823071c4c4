package adapters

import (
	"testing"

	dealsdomain "leadflow_backend/internal/deals/domain"
	leadsdomain "leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestLeadPatchForDeal(t *testing.T) {
	value := 50000.0
	reason := "budget cut"
	leadID := uuid.New()

	tests := []struct {
		name       string
		effect     dealsdomain.LeadEffect
		wantStatus leadsdomain.Status
		wantValue  bool
		wantReason bool
	}{
		{"negotiating with value", dealsdomain.LeadEffect{LeadID: leadID, Outcome: dealsdomain.LeadNegotiating, DealValue: &value}, leadsdomain.StatusNegotiating, true, false},
		{"converted", dealsdomain.LeadEffect{LeadID: leadID, Outcome: dealsdomain.LeadConverted}, leadsdomain.StatusConverted, false, false},
		{"lost with reason", dealsdomain.LeadEffect{LeadID: leadID, Outcome: dealsdomain.LeadLost, LostReason: &reason}, leadsdomain.StatusLost, false, true},
		{"value only", dealsdomain.LeadEffect{LeadID: leadID, DealValue: &value}, "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := LeadPatchForDeal(tt.effect)
			if tt.wantStatus == "" {
				if patch.Status != nil {
					t.Fatalf("expected no status, got %v", *patch.Status)
				}
			} else if patch.Status == nil || *patch.Status != tt.wantStatus {
				t.Fatalf("status = %v, want %v", patch.Status, tt.wantStatus)
			}
			if patch.DealValue.Set != tt.wantValue {
				t.Fatalf("deal value set = %v, want %v", patch.DealValue.Set, tt.wantValue)
			}
			if patch.LostReason.Set != tt.wantReason {
				t.Fatalf("lost reason set = %v, want %v", patch.LostReason.Set, tt.wantReason)
			}
		})
	}
}

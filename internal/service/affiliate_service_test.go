package service

import (
	"context"
	"testing"
)

func TestAffiliateServiceCreateWithCampaigns(t *testing.T) {
	_, campaignSvc, _, affiliateSvc := setupServiceTest(t)

	first := seedCampaign(t, campaignSvc, "Spring Push", "1000.00")
	second := seedCampaign(t, campaignSvc, "Autumn Push", "2000.00")

	affiliate, err := affiliateSvc.Create(context.Background(), CreateAffiliateInput{
		Name:        "Linked Partner",
		Email:       "linked.partner@example.com",
		CampaignIDs: []uint{first.ID, second.ID, first.ID},
	})
	if err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	if len(affiliate.Campaigns) != 2 {
		t.Fatalf("campaigns len want 2 got %d", len(affiliate.Campaigns))
	}
}

func TestAffiliateServiceCreateRejectsUnknownCampaign(t *testing.T) {
	_, _, _, affiliateSvc := setupServiceTest(t)

	_, err := affiliateSvc.Create(context.Background(), CreateAffiliateInput{
		Name:        "Ghost Links",
		Email:       "ghost.links@example.com",
		CampaignIDs: []uint{999},
	})
	if err != ErrCampaignNotFound {
		t.Fatalf("want ErrCampaignNotFound, got: %v", err)
	}
}

func TestAffiliateServiceUpdateReplacesCampaigns(t *testing.T) {
	_, campaignSvc, _, affiliateSvc := setupServiceTest(t)

	first := seedCampaign(t, campaignSvc, "Old Link", "1000.00")
	second := seedCampaign(t, campaignSvc, "New Link", "2000.00")

	affiliate, err := affiliateSvc.Create(context.Background(), CreateAffiliateInput{
		Name:        "Replace Partner",
		Email:       "replace.partner@example.com",
		CampaignIDs: []uint{first.ID},
	})
	if err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	updated, err := affiliateSvc.Update(context.Background(), affiliate.ID, CreateAffiliateInput{
		Name:        "Replace Partner",
		Email:       "replace.partner@example.com",
		CampaignIDs: []uint{second.ID},
	})
	if err != nil {
		t.Fatalf("update affiliate failed: %v", err)
	}
	if len(updated.Campaigns) != 1 || updated.Campaigns[0].ID != second.ID {
		t.Fatalf("campaigns not replaced: %+v", updated.Campaigns)
	}
}

package index

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/h200-index/internal/model"
)

// Blend converts a hyperscaler's list price into its effective price:
// DiscountedFraction of volume at Rate off list, the remainder at full
// list. Calling Blend on a non-hyperscaler is a programming error.
func Blend(p model.Provider, listPrice float64) (model.EffectivePrice, error) {
	if !p.IsHyperscaler() {
		return model.EffectivePrice{}, eris.Wrapf(ErrPrecondition, "blend called on %s provider %q", p.Tier, p.Name)
	}
	if p.Discount == nil {
		return model.EffectivePrice{}, eris.Wrapf(ErrInvalidDiscountParameters, "%q has no discount config", p.Name)
	}
	if listPrice <= 0 {
		return model.EffectivePrice{}, eris.Wrapf(ErrInvalidDiscountParameters, "%q list price %v is not positive", p.Name, listPrice)
	}

	r, v := p.Discount.Rate, p.Discount.DiscountedFraction
	if r < 0 || r >= 1 {
		return model.EffectivePrice{}, eris.Wrapf(ErrInvalidDiscountParameters, "%q discount rate %v outside [0,1)", p.Name, r)
	}
	if v < 0 || v > 1 {
		return model.EffectivePrice{}, eris.Wrapf(ErrInvalidDiscountParameters, "%q discounted fraction %v outside [0,1]", p.Name, v)
	}

	effective := listPrice*(1-r)*v + listPrice*(1-v)

	return model.EffectivePrice{
		Provider:       p.Name,
		Tier:           p.Tier,
		ListPrice:      listPrice,
		EffectivePrice: effective,
		DiscountRate:   r,
	}, nil
}

// PassThrough wraps a neocloud's list price unchanged.
func PassThrough(p model.Provider, listPrice float64) model.EffectivePrice {
	return model.EffectivePrice{
		Provider:       p.Name,
		Tier:           p.Tier,
		ListPrice:      listPrice,
		EffectivePrice: listPrice,
	}
}

// Package tea implements the deterministic techno-economic analysis model:
// capital and operating cost breakdowns, escalating revenue projections, and
// the derived financial metrics (LCOE, NPV, IRR, payback period, ROI) for a
// single project configuration.
//
// The model is a pure function of its inputs. Uncertainty comes entirely
// from the Monte Carlo engine perturbing those inputs; nothing in this
// package draws random numbers.
package tea

import (
	"math"

	"teasim/domain/scenario"
	"teasim/internal/errors"
)

// Input field names recognized by the model.
const (
	InputCapacityMW          = "capacity_mw"
	InputCapexPerKW          = "capex_per_kw"
	InputOpexPerKWYear       = "opex_per_kw_year"
	InputCapacityFactor      = "capacity_factor"
	InputAnnualProductionMWh = "annual_production_mwh"
	InputInstallationFactor  = "installation_factor"
	InputLandCost            = "land_cost"
	InputGridConnectionCost  = "grid_connection_cost"
	InputFixedOpexAnnual     = "fixed_opex_annual"
	InputVariableOpexPerMWh  = "variable_opex_per_mwh"
	InputInsuranceRate       = "insurance_rate"
	InputLifetimeYears       = "project_lifetime_years"
	InputDiscountRate        = "discount_rate"
	InputElectricityPrice    = "electricity_price_per_mwh"
	InputPriceEscalation     = "price_escalation_rate"
	InputCarbonCredit        = "carbon_credit_per_ton"
	InputCarbonIntensity     = "carbon_intensity_avoided"
)

// Defaults applied to omitted optional inputs. capacity_mw and capex_per_kw
// have no defaults; they are required.
const (
	DefaultCapacityFactor     = 0.25
	DefaultInstallationFactor = 1.2
	DefaultInsuranceRate      = 0.01
	DefaultLifetimeYears      = 25
	DefaultDiscountRate       = 0.08
	DefaultElectricityPrice   = 50.0
	DefaultPriceEscalation    = 0.02

	hoursPerYear = 8760

	// Operating costs compound at a fixed rate each project year,
	// independent of the revenue-side price escalation input.
	opexEscalation = 0.02
)

// Newton–Raphson parameters for the IRR solve.
const (
	irrInitialGuess  = 0.1
	irrMaxIterations = 1000
	irrDerivativeEps = 1e-10
	irrConvergence   = 1e-6
)

// CapexBreakdown itemizes the initial investment.
type CapexBreakdown struct {
	Equipment      float64 `json:"equipment"`
	Installation   float64 `json:"installation"`
	Land           float64 `json:"land"`
	GridConnection float64 `json:"grid_connection"`
}

// Total sums the breakdown.
func (b CapexBreakdown) Total() float64 {
	return b.Equipment + b.Installation + b.Land + b.GridConnection
}

// OpexBreakdown itemizes first-year operating costs.
type OpexBreakdown struct {
	CapacityBased float64 `json:"capacity_based"`
	Fixed         float64 `json:"fixed"`
	Variable      float64 `json:"variable"`
	Insurance     float64 `json:"insurance"`
}

// Total sums the breakdown.
func (b OpexBreakdown) Total() float64 {
	return b.CapacityBased + b.Fixed + b.Variable + b.Insurance
}

// Evaluation is the complete model output for one input set. All values are
// unrounded; rounding is a presentation concern.
type Evaluation struct {
	LCOE                  float64        `json:"lcoe"`
	NPV                   float64        `json:"npv"`
	IRR                   float64        `json:"irr"` // decimal fraction, not percent
	PaybackYears          float64        `json:"payback_years"`
	ROI                   float64        `json:"roi"` // NPV / total capex
	TotalCapex            float64        `json:"total_capex"`
	AnnualOpex            float64        `json:"annual_opex"`
	AnnualProductionMWh   float64        `json:"annual_production_mwh"`
	LifetimeProductionMWh float64        `json:"lifetime_production_mwh"`
	AnnualRevenue         float64        `json:"annual_revenue"`
	LifetimeRevenueNPV    float64        `json:"lifetime_revenue_npv"`
	TotalLifetimeCost     float64        `json:"total_lifetime_cost"`
	CapexBreakdown        CapexBreakdown `json:"capex_breakdown"`
	OpexBreakdown         OpexBreakdown  `json:"opex_breakdown"`
	CashFlows             []float64      `json:"cash_flows"`
}

// assumptions is the fully-defaulted, validated input set for one
// evaluation.
type assumptions struct {
	capacityMW          float64
	capexPerKW          float64
	opexPerKWYear       float64
	capacityFactor      float64
	annualProductionMWh float64 // 0 means derive from capacity
	installationFactor  float64
	landCost            float64
	gridConnectionCost  float64
	fixedOpexAnnual     float64
	variableOpexPerMWh  float64
	insuranceRate       float64
	lifetimeYears       int
	discountRate        float64
	electricityPrice    float64
	priceEscalation     float64
	carbonCredit        float64
	carbonIntensity     float64
}

func inputOr(in scenario.Inputs, key string, fallback float64) float64 {
	if v, ok := in[key]; ok {
		return v
	}
	return fallback
}

func parseAssumptions(in scenario.Inputs) (assumptions, error) {
	capacity, ok := in[InputCapacityMW]
	if !ok {
		return assumptions{}, errors.InvalidInput("capacity_mw is required")
	}
	capex, ok := in[InputCapexPerKW]
	if !ok {
		return assumptions{}, errors.InvalidInput("capex_per_kw is required")
	}

	a := assumptions{
		capacityMW:          capacity,
		capexPerKW:          capex,
		opexPerKWYear:       inputOr(in, InputOpexPerKWYear, 0),
		capacityFactor:      inputOr(in, InputCapacityFactor, DefaultCapacityFactor),
		annualProductionMWh: inputOr(in, InputAnnualProductionMWh, 0),
		installationFactor:  inputOr(in, InputInstallationFactor, DefaultInstallationFactor),
		landCost:            inputOr(in, InputLandCost, 0),
		gridConnectionCost:  inputOr(in, InputGridConnectionCost, 0),
		fixedOpexAnnual:     inputOr(in, InputFixedOpexAnnual, 0),
		variableOpexPerMWh:  inputOr(in, InputVariableOpexPerMWh, 0),
		insuranceRate:       inputOr(in, InputInsuranceRate, DefaultInsuranceRate),
		lifetimeYears:       int(inputOr(in, InputLifetimeYears, DefaultLifetimeYears)),
		discountRate:        inputOr(in, InputDiscountRate, DefaultDiscountRate),
		electricityPrice:    inputOr(in, InputElectricityPrice, DefaultElectricityPrice),
		priceEscalation:     inputOr(in, InputPriceEscalation, DefaultPriceEscalation),
		carbonCredit:        inputOr(in, InputCarbonCredit, 0),
		carbonIntensity:     inputOr(in, InputCarbonIntensity, 0),
	}

	if a.capacityMW <= 0 {
		return assumptions{}, errors.InvalidInput("capacity_mw must be greater than 0")
	}
	if a.capexPerKW <= 0 {
		return assumptions{}, errors.InvalidInput("capex_per_kw must be greater than 0")
	}
	if a.capacityFactor <= 0 || a.capacityFactor > 1 {
		return assumptions{}, errors.InvalidInput("capacity_factor must be in (0, 1]")
	}
	if a.discountRate < 0 || a.discountRate > 1 {
		return assumptions{}, errors.InvalidInput("discount_rate must be in [0, 1]")
	}
	return a, nil
}

// Merged returns the model's view of the inputs: every recognized field
// present, defaults filled in. Run setups use this to make defaulted fields
// addressable by uncertain parameters.
func Merged(in scenario.Inputs) scenario.Inputs {
	out := scenario.Inputs{
		InputCapacityMW:         in[InputCapacityMW],
		InputCapexPerKW:         in[InputCapexPerKW],
		InputOpexPerKWYear:      inputOr(in, InputOpexPerKWYear, 0),
		InputCapacityFactor:     inputOr(in, InputCapacityFactor, DefaultCapacityFactor),
		InputInstallationFactor: inputOr(in, InputInstallationFactor, DefaultInstallationFactor),
		InputLandCost:           inputOr(in, InputLandCost, 0),
		InputGridConnectionCost: inputOr(in, InputGridConnectionCost, 0),
		InputFixedOpexAnnual:    inputOr(in, InputFixedOpexAnnual, 0),
		InputVariableOpexPerMWh: inputOr(in, InputVariableOpexPerMWh, 0),
		InputInsuranceRate:      inputOr(in, InputInsuranceRate, DefaultInsuranceRate),
		InputLifetimeYears:      inputOr(in, InputLifetimeYears, DefaultLifetimeYears),
		InputDiscountRate:       inputOr(in, InputDiscountRate, DefaultDiscountRate),
		InputElectricityPrice:   inputOr(in, InputElectricityPrice, DefaultElectricityPrice),
		InputPriceEscalation:    inputOr(in, InputPriceEscalation, DefaultPriceEscalation),
		InputCarbonCredit:       inputOr(in, InputCarbonCredit, 0),
		InputCarbonIntensity:    inputOr(in, InputCarbonIntensity, 0),
	}
	// No default exists for a production override; only carry an explicit
	// non-zero value, zero meaning "derive from capacity".
	if v := in[InputAnnualProductionMWh]; v != 0 {
		out[InputAnnualProductionMWh] = v
	}
	return out
}

// Evaluate runs the full model on one input set.
func Evaluate(in scenario.Inputs) (*Evaluation, error) {
	a, err := parseAssumptions(in)
	if err != nil {
		return nil, err
	}

	production := a.annualProduction()
	capex := a.capexBreakdown()
	totalCapex := capex.Total()
	opex := a.opexBreakdown(production, totalCapex)
	annualOpex := opex.Total()
	cashFlows := a.cashFlows(totalCapex, annualOpex, production)

	npv := a.netPresentValue(cashFlows)

	ev := &Evaluation{
		LCOE:                  a.levelizedCost(totalCapex, annualOpex, production),
		NPV:                   npv,
		IRR:                   internalRateOfReturn(cashFlows),
		PaybackYears:          paybackPeriod(cashFlows),
		ROI:                   npv / totalCapex,
		TotalCapex:            totalCapex,
		AnnualOpex:            annualOpex,
		AnnualProductionMWh:   production,
		LifetimeProductionMWh: production * float64(a.lifetimeYears),
		AnnualRevenue:         a.annualRevenue(production, 1),
		LifetimeRevenueNPV:    a.lifetimeRevenueNPV(production),
		TotalLifetimeCost:     totalCapex + a.discountedOpex(annualOpex),
		CapexBreakdown:        capex,
		OpexBreakdown:         opex,
		CashFlows:             cashFlows,
	}
	return ev, nil
}

func (a assumptions) annualProduction() float64 {
	if a.annualProductionMWh != 0 {
		return a.annualProductionMWh
	}
	return hoursPerYear * a.capacityFactor * a.capacityMW
}

func (a assumptions) capexBreakdown() CapexBreakdown {
	capacityKW := a.capacityMW * 1000
	equipment := capacityKW * a.capexPerKW
	return CapexBreakdown{
		Equipment:      equipment,
		Installation:   equipment * (a.installationFactor - 1),
		Land:           a.landCost,
		GridConnection: a.gridConnectionCost,
	}
}

func (a assumptions) opexBreakdown(production, totalCapex float64) OpexBreakdown {
	capacityKW := a.capacityMW * 1000
	return OpexBreakdown{
		CapacityBased: capacityKW * a.opexPerKWYear,
		Fixed:         a.fixedOpexAnnual,
		Variable:      production * a.variableOpexPerMWh,
		Insurance:     totalCapex * a.insuranceRate,
	}
}

// annualRevenue prices the given year's output: escalating electricity sales
// plus flat carbon credit revenue.
func (a assumptions) annualRevenue(production float64, year int) float64 {
	price := a.electricityPrice * math.Pow(1+a.priceEscalation, float64(year-1))
	electricity := production * price
	carbon := production * a.carbonIntensity * a.carbonCredit
	return electricity + carbon
}

// cashFlows returns year-indexed net cash flows: the full investment at year
// 0, then escalating revenue minus escalating operating cost per year.
func (a assumptions) cashFlows(totalCapex, annualOpex, production float64) []float64 {
	flows := make([]float64, 0, a.lifetimeYears+1)
	flows = append(flows, -totalCapex)
	for year := 1; year <= a.lifetimeYears; year++ {
		revenue := a.annualRevenue(production, year)
		opex := annualOpex * math.Pow(1+opexEscalation, float64(year-1))
		flows = append(flows, revenue-opex)
	}
	return flows
}

// levelizedCost is total discounted cost over total discounted production.
// Zero discounted production (a zero-year project) levelizes to +Inf.
func (a assumptions) levelizedCost(totalCapex, annualOpex, production float64) float64 {
	discountedProduction := 0.0
	for t := 1; t <= a.lifetimeYears; t++ {
		discountedProduction += production / math.Pow(1+a.discountRate, float64(t))
	}
	if discountedProduction == 0 {
		return math.Inf(1)
	}
	return (totalCapex + a.discountedOpex(annualOpex)) / discountedProduction
}

func (a assumptions) discountedOpex(annualOpex float64) float64 {
	total := 0.0
	for t := 1; t <= a.lifetimeYears; t++ {
		total += annualOpex * math.Pow(1+opexEscalation, float64(t-1)) / math.Pow(1+a.discountRate, float64(t))
	}
	return total
}

func (a assumptions) netPresentValue(cashFlows []float64) float64 {
	npv := 0.0
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+a.discountRate, float64(t))
	}
	return npv
}

func (a assumptions) lifetimeRevenueNPV(production float64) float64 {
	total := 0.0
	for t := 1; t <= a.lifetimeYears; t++ {
		total += a.annualRevenue(production, t) / math.Pow(1+a.discountRate, float64(t))
	}
	return total
}

// internalRateOfReturn solves NPV(rate) = 0 by Newton–Raphson from a 10%
// starting guess. Projects that never recover their investment make the
// iteration drift instead of converging; a non-finite drift result is
// reported as 0 rather than poisoning the caller.
func internalRateOfReturn(cashFlows []float64) float64 {
	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		npv := 0.0
		derivative := 0.0
		for t, cf := range cashFlows {
			npv += cf / math.Pow(1+rate, float64(t))
			derivative += -float64(t) * cf / math.Pow(1+rate, float64(t+1))
		}
		if math.Abs(derivative) < irrDerivativeEps {
			break
		}
		rate -= npv / derivative
		if math.Abs(npv) < irrConvergence {
			break
		}
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate
}

// paybackPeriod is the first year cumulative cash flow turns non-negative,
// interpolated to a fraction within that year. A project that never pays
// back reports the full horizon length.
func paybackPeriod(cashFlows []float64) float64 {
	cumulative := 0.0
	for year, cf := range cashFlows {
		cumulative += cf
		if cumulative >= 0 {
			if year > 0 && cf > 0 {
				fraction := (cf - cumulative) / cf
				return float64(year-1) + fraction
			}
			return float64(year)
		}
	}
	return float64(len(cashFlows))
}

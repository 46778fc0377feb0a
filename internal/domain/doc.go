// Package domain models European gas-infrastructure snapshots and the
// "winter days covered" arithmetic derived from them.
//
// # Data Sources
//
// Three transparency platforms publish the snapshots, each as a semicolon
// separated CSV export:
//
//	ALSI   (https://alsi.gie.eu/)                  LNG terminals, one row per country
//	AGSI   (https://agsi.gie.eu/)                  gas storage, one row per country
//	ENTSOG (https://transparency.entsog.eu/#/map)  import pipelines, one row per route
//
// The ALSI and ENTSOG exports start with a one-line preamble (title and gas
// day) before the header row. AGSI exports have no preamble and are named
// after the gas day they describe:
//
//	AGSI_CountryAggregatedDataset_gasDayStart_2024-01-20.csv
//
// ALSI and AGSI include an aggregate row whose Name is "EU". ENTSOG does not,
// so pipeline totals are summed from the route rows.
//
// # Units
//
//	DTRS   Declared Total Reference Send-out, LNG regasification capacity (GWh/d)
//	DTMI   Declared Total Maximum Inventory, LNG tank capacity (1000 m3)
//	Working (gas) volume, Gas in storage: TWh
//	Pipeline capacity and mean flow: GWh/d
//
// # Winter Coverage
//
// The winter runs from 1 November to 31 March (151 days) and is assumed to
// consume 55% of annual demand (Eurostat nrg_cb_gasm). A daily flow F in GWh/d
// sustained over the winter covers
//
//	WinterDays * (F * WinterDays) / (winterConsumptionTWh * 1000)
//
// winter days. A stock S in TWh covers S * (1 - MinStorageLevel) divided by the
// average winter daily demand, where MinStorageLevel (18%) is the lowest EU
// fill level observed in April 2018.
//
// Results are rounded half to even, matching the figures printed on the
// published charts.
package domain
